package onsdb

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/smartystreets/scanners/csv"
	"golang.org/x/sync/errgroup"
)

// PostcodeData represents an individual postcode with its associated data
type PostcodeData struct {
	Postcode          string `csv:"pcds"`
	Latitude          string `csv:"lat"`
	Longitude         string `csv:"long"`
	Inception         string `csv:"dointr"`
	Cessation         string `csv:"doterm"`
	CountryCode       string `csv:"ctry"`
	RegionCode        string `csv:"rgn"`
	CountyCode        string `csv:"oscty"`
	DistrictCode      string `csv:"oslaua"`
	PositionalQuality string `csv:"osgrdind"`
}

// ONSDB is an in-memory index of the ONS Postcode Directory, keyed by postcode
type ONSDB struct {
	mu   sync.RWMutex
	data map[string]*PostcodeData
	path string
}

// NewONSDB creates a new ONSDB for the CSV at the path specified
func NewONSDB(path string) *ONSDB {
	data := make(map[string]*PostcodeData)
	return &ONSDB{path: path, data: data}
}

// Build reads the CSV into the database
func (db *ONSDB) Build() error {
	f, err := os.Open(db.path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner, err := csv.NewStructScanner(f)
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", db.path, err)
	}

	for scanner.Scan() {
		var pcData PostcodeData
		if err := scanner.Populate(&pcData); err != nil {
			return fmt.Errorf("failed to read %s: %w", db.path, err)
		}

		db.mu.Lock()
		db.data[pcData.Postcode] = &pcData
		db.mu.Unlock()
	}

	return scanner.Error()
}

// BuildAll builds a single ONSDB from several CSVs, such as the per-area
// files of the multi-CSV ONSPD release, reading at most limit files at once.
func BuildAll(ctx context.Context, paths []string, limit int) (*ONSDB, error) {
	merged := NewONSDB("")

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			db := NewONSDB(path)
			if err := db.Build(); err != nil {
				return err
			}

			merged.merge(db)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return merged, nil
}

func (db *ONSDB) merge(other *ONSDB) {
	other.mu.RLock()
	defer other.mu.RUnlock()

	db.mu.Lock()
	defer db.mu.Unlock()

	for k, v := range other.data {
		db.data[k] = v
	}
}

// GetPostcodeData returns the PostcodeData for the postcode provided
func (db *ONSDB) GetPostcodeData(postcode string) (*PostcodeData, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	pcData := db.data[postcode]
	return pcData, nil
}

// Len returns the number of postcodes in the database
func (db *ONSDB) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.data)
}

// Iterate calls cb for every postcode, stopping at the first error
func (db *ONSDB) Iterate(cb func(*PostcodeData) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, pc := range db.data {
		err := cb(pc)
		if err != nil {
			return err
		}
	}

	return nil
}
