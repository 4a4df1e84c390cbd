package postalregionsdb

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/saracen/walker"
	"github.com/whosonfirst/go-whosonfirst-feature/properties"
	uri "github.com/whosonfirst/go-whosonfirst-uri"
	"github.com/whosonfirst/wof-classify-os-postcodes/postcodevalidator"
)

type PostalRegion struct {
	Name      string
	WofID     int64
	Hierarchy []map[string]int64
}

type PostalRegionsDB struct {
	dataPath *string
	Regions  map[string]*PostalRegion
}

func NewPostalRegionsDB(dataPath string) *PostalRegionsDB {
	db := &PostalRegionsDB{dataPath: &dataPath, Regions: make(map[string]*PostalRegion)}

	return db
}

// Build walks the data path collecting every postalregion feature.
func (db *PostalRegionsDB) Build() error {
	var mutex = &sync.RWMutex{}

	walkFn := func(path string, fi os.FileInfo) error {
		if fi.IsDir() {
			return nil
		}

		if !strings.HasSuffix(path, ".geojson") {
			return nil
		}

		isAlt, err := uri.IsAltFile(path)
		if err != nil || isAlt {
			return nil
		}

		f, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		placetype, err := properties.Placetype(f)
		if err != nil {
			return err
		}

		if placetype != "postalregion" {
			return nil
		}

		name, err := properties.Name(f)
		if err != nil {
			return err
		}

		id, err := properties.Id(f)
		if err != nil {
			return err
		}

		hierarchy := properties.Hierarchies(f)

		mutex.Lock()
		db.Regions[name] = &PostalRegion{
			Name:      name,
			WofID:     id,
			Hierarchy: hierarchy,
		}
		mutex.Unlock()

		return nil
	}

	errorFn := walker.WithErrorCallback(func(path string, err error) error {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	})

	return walker.Walk(*db.dataPath, walkFn, errorFn)
}

// AuditReport lists the postal regions whose names are not shaped like a
// postcode area or district.
type AuditReport struct {
	Total     int
	Areas     int
	Districts int
	Rejected  []*PostalRegion
}

// Audit checks every region name with the strict district check, falling
// back to the area check for regions that cover a whole area.
func (db *PostalRegionsDB) Audit(c *postcodevalidator.Classifier) *AuditReport {
	report := &AuditReport{}

	for name, region := range db.Regions {
		report.Total++

		switch {
		case c.IsLikelyDistrictPostcodeStrict(name):
			report.Districts++
		case c.IsLikelyAreaPostcode(name):
			report.Areas++
		default:
			report.Rejected = append(report.Rejected, region)
		}
	}

	sort.Slice(report.Rejected, func(i, j int) bool {
		return report.Rejected[i].Name < report.Rejected[j].Name
	})

	return report
}
