package postcodevalidator

import (
	"regexp"
	"strings"
)

// Alphabets from the Royal Mail Programmers' Guide (edition 7, p.18). Each
// position excludes letters that are either unused in that position or too
// easily misread when handwritten or machine sorted.
const (
	// outwardFirst is the optional first letter of a two-letter area.
	// J, Q, V and X are never used here.
	outwardFirst = `[A-IK-PR-UWYZ]`

	// outwardSecond is the mandatory area letter. I and J read as 1, Z as 2.
	outwardSecond = `[A-HK-Y]`

	// outwardDigit is the optional leading district digit.
	outwardDigit = `[0-9]?`

	// outwardLast closes the district: either its final digit or the
	// sub-district letter of central London districts (SW1A, W1W). I and L
	// read as 1, O as 0 and Z as 2.
	outwardLast = `[0-9A-HJKMNP-Y]`

	// sectorDigit is the first character of the inward code.
	sectorDigit = `[0-9]`

	// unitLetter is one of the 20 letters allowed in the final two positions.
	// C, I, K, M, O and V are too easily confused with other characters in
	// handwriting.
	unitLetter = `[ABD-HJLNP-UW-Z]`

	outward = outwardFirst + `?` + outwardSecond + outwardDigit + outwardLast
	inward  = sectorDigit + unitLetter + unitLetter

	optionalSpace = ` ?`
	requiredSpace = ` `
)

// District templates, where A is a letter and N a digit. These carry no
// positional alphabet; the area prefix is checked against the loaded areas
// instead.
const (
	letter = `[A-Z]`
	digit  = `[0-9]`

	districtAN   = letter + digit
	districtANN  = letter + digit + digit
	districtAAN  = letter + letter + digit
	districtAANN = letter + letter + digit + digit
	districtANA  = letter + digit + letter
	districtAANA = letter + letter + digit + letter
)

var (
	districtRegexp       = anchored(outward)
	districtStrictRegexp = anchored(alternatives(districtAN, districtANN, districtAAN, districtAANN, districtANA, districtAANA))
	sectorRegexp         = anchored(outward + optionalSpace + sectorDigit)
	sectorStrictRegexp   = anchored(outward + requiredSpace + sectorDigit)
	unitRegexp           = anchored(outward + optionalSpace + inward)
	unitStrictRegexp     = anchored(outward + requiredSpace + inward)

	digitRegexp = regexp.MustCompile(digit)
)

func anchored(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`^` + pattern + `$`)
}

func alternatives(patterns ...string) string {
	groups := make([]string, len(patterns))
	for i, p := range patterns {
		groups[i] = `(?:` + p + `)`
	}

	return `(?:` + strings.Join(groups, `|`) + `)`
}
