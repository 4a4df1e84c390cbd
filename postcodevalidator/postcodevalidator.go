// Package postcodevalidator decides whether a string is shaped like a UK
// postcode, and at what precision.
//
// Using the postcode "PO1 1AF" the levels are:
//
//	PO        postcode area
//	PO1       postcode district
//	PO1 1     postcode sector
//	PO1 1AF   unit postcode
//
// Each level includes all of the preceding ones. Only the shape is checked:
// the Royal Mail is the data authority and the only way to know a postcode
// exists is to look it up in their data. Historical and future postcodes may
// fail these checks.
//
// Lenient checks accept a missing space between the outward and inward codes
// and err towards false positives. Strict checks require the single space and
// err towards false negatives.
package postcodevalidator

import (
	"errors"
	"strings"

	"github.com/whosonfirst/wof-classify-os-postcodes/postcodeareas"
)

// ErrNoAreas is returned by New when no area set is supplied.
var ErrNoAreas = errors.New("postcode areas are required")

// Classifier answers postcode shape queries. It is safe for concurrent use.
type Classifier struct {
	areas *postcodeareas.Set
}

// New returns a Classifier that checks area prefixes against areas.
func New(areas *postcodeareas.Set) (*Classifier, error) {
	if areas == nil || areas.Len() == 0 {
		return nil, ErrNoAreas
	}

	return &Classifier{areas: areas}, nil
}

// Validate reports whether postcode, exactly as given, is a full unit
// postcode. Case and surrounding whitespace are not forgiven, so it suits
// data that should already be canonical, such as the names of WOF records.
func Validate(postcode string) bool {
	return unitRegexp.MatchString(postcode)
}

// IsLikelyPostcode reports whether value is at least a district postcode.
func (c *Classifier) IsLikelyPostcode(value string) bool {
	return c.IsLikelyDistrictPostcode(value) || c.IsLikelySectorPostcode(value) || c.IsLikelyFullPostcode(value)
}

// IsLikelyFullPostcode reports whether value is a full postcode candidate.
func (c *Classifier) IsLikelyFullPostcode(value string) bool {
	return c.IsLikelyUnitPostcode(value)
}

// IsLikelyAreaPostcode reports whether value is a known area, such as "PO".
func (c *Classifier) IsLikelyAreaPostcode(value string) bool {
	return c.areas.Contains(value)
}

// IsLikelyDistrictPostcode reports whether value is shaped like a district,
// such as "PO1". The value must contain a digit.
func (c *Classifier) IsLikelyDistrictPostcode(value string) bool {
	return districtRegexp.MatchString(normalize(value)) && digitRegexp.MatchString(value)
}

// IsLikelyDistrictPostcodeStrict reports whether value is a district in one
// of the formats AN, ANN, AAN, AANN, ANA or AANA (A a letter, N a digit)
// whose area, the letters before the first digit, is known.
func (c *Classifier) IsLikelyDistrictPostcodeStrict(value string) bool {
	value = normalize(value)

	if !districtStrictRegexp.MatchString(value) {
		return false
	}

	return c.areas.Contains(areaPrefix(value))
}

// IsLikelySectorPostcode reports whether value is shaped like a sector, such
// as "PO1 1" or "PO11".
func (c *Classifier) IsLikelySectorPostcode(value string) bool {
	return sectorRegexp.MatchString(normalize(value))
}

// IsLikelySectorPostcodeStrict is IsLikelySectorPostcode with the space
// between district and sector required.
func (c *Classifier) IsLikelySectorPostcodeStrict(value string) bool {
	return sectorStrictRegexp.MatchString(normalize(value))
}

// IsLikelyUnitPostcode reports whether value is a complete postcode, such as
// "PO1 1AF" or "PO11AF".
func (c *Classifier) IsLikelyUnitPostcode(value string) bool {
	return unitRegexp.MatchString(normalize(value))
}

// IsLikelyUnitPostcodeStrict is IsLikelyUnitPostcode with the space between
// the outward and inward codes required.
func (c *Classifier) IsLikelyUnitPostcodeStrict(value string) bool {
	return unitStrictRegexp.MatchString(normalize(value))
}

func normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// areaPrefix drops everything from the first digit onwards.
func areaPrefix(value string) string {
	i := strings.IndexAny(value, "0123456789")
	if i < 0 {
		return value
	}

	return value[:i]
}
