package onsdb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/whosonfirst/wof-classify-os-postcodes/postcodevalidator"
)

// AuditReport summarises how the classifier sees the postcodes of the
// directory. The directory is authoritative, so anything listed in Rejected
// or UnknownArea is a gap in the grammar or the area list.
type AuditReport struct {
	Total   int
	ByLevel map[postcodevalidator.Level]int
	// Rejected lists postcodes that fail the strict unit check.
	Rejected []string
	// UnknownArea lists postcodes whose area is missing from the area list.
	UnknownArea []string
}

// Audit classifies every postcode in the database.
func (db *ONSDB) Audit(c *postcodevalidator.Classifier) (*AuditReport, error) {
	report := &AuditReport{ByLevel: make(map[postcodevalidator.Level]int)}

	err := db.Iterate(func(pc *PostcodeData) error {
		postcode := pc.Postcode

		report.Total++
		report.ByLevel[c.Classify(postcode)]++

		if !c.IsLikelyUnitPostcodeStrict(postcode) {
			report.Rejected = append(report.Rejected, postcode)
		}

		if !c.IsLikelyAreaPostcode(area(postcode)) {
			report.UnknownArea = append(report.UnknownArea, postcode)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to audit ONS database: %w", err)
	}

	sort.Strings(report.Rejected)
	sort.Strings(report.UnknownArea)

	return report, nil
}

// area returns the leading letters of a postcode.
func area(postcode string) string {
	postcode = strings.TrimSpace(postcode)

	i := strings.IndexFunc(postcode, func(r rune) bool {
		return (r < 'A' || r > 'Z') && (r < 'a' || r > 'z')
	})

	if i < 0 {
		return postcode
	}

	return postcode[:i]
}
