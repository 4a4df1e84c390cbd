package wofdata

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
	"github.com/whosonfirst/wof-classify-os-postcodes/onsdb"
	"github.com/whosonfirst/wof-classify-os-postcodes/postcodevalidator"
)

// Stats counts what a Lint pass did.
type Stats struct {
	Checked    uint64
	Skipped    uint64
	Valid      uint64
	Deprecated uint64
	Ceased     uint64
}

// LintOptions controls a Lint pass.
type LintOptions struct {
	// PrefixFilter restricts the pass to postcodes starting with it.
	PrefixFilter string
	DryRun       bool

	// Directory, when set, is checked for every valid postcode. Postcodes
	// missing from it are ceased as of DirectoryDate.
	Directory     *onsdb.ONSDB
	DirectoryDate time.Time
}

// Lint deprecates every GB postalcode whose name is not a full unit postcode,
// since such a record should never have existed. With a Directory, postcodes
// it lists are left alone whatever their shape, and valid postcodes it no
// longer lists are ceased.
func (d *WOFData) Lint(c *postcodevalidator.Classifier, opts LintOptions) (*Stats, error) {
	var checked, skipped, valid, deprecated, ceased uint64

	cb := func(f []byte) error {
		if gjson.GetBytes(f, "properties.wof:placetype").String() != "postalcode" {
			atomic.AddUint64(&skipped, 1)
			return nil
		}

		id := gjson.GetBytes(f, "id").String()
		if id == "" {
			return errors.New("id not found on existing record")
		}

		postcode := gjson.GetBytes(f, "properties.wof:name").String()
		if postcode == "" {
			return fmt.Errorf("name not found on existing record with ID %s", id)
		}

		if gjson.GetBytes(f, "properties.wof:country").String() != "GB" {
			log.Debugf("Skipping non-GB postcode: %s (ID %s)", postcode, id)
			atomic.AddUint64(&skipped, 1)
			return nil
		}

		if opts.PrefixFilter != "" && !strings.HasPrefix(postcode, opts.PrefixFilter) {
			atomic.AddUint64(&skipped, 1)
			return nil
		}

		atomic.AddUint64(&checked, 1)

		if opts.Directory != nil {
			pcData, err := opts.Directory.GetPostcodeData(postcode)
			if err != nil {
				return err
			}

			if pcData != nil {
				atomic.AddUint64(&valid, 1)
				return nil
			}
		}

		if postcodevalidator.Validate(postcode) {
			atomic.AddUint64(&valid, 1)
			return d.ceaseIfMissing(f, postcode, id, opts, &ceased)
		}

		changed, err := d.DeprecateFeature(f, opts.DryRun)
		if changed {
			log.Infof("Deprecated invalid postcode: %s (ID %s, looks like: %s)", postcode, id, c.Classify(postcode))
			atomic.AddUint64(&deprecated, 1)
		}

		return err
	}

	err := d.Iterate(cb)

	stats := &Stats{
		Checked:    atomic.LoadUint64(&checked),
		Skipped:    atomic.LoadUint64(&skipped),
		Valid:      atomic.LoadUint64(&valid),
		Deprecated: atomic.LoadUint64(&deprecated),
		Ceased:     atomic.LoadUint64(&ceased),
	}

	return stats, err
}

// ceaseIfMissing ceases a valid postcode the directory does not list. Callers
// have already checked the directory.
func (d *WOFData) ceaseIfMissing(f []byte, postcode string, id string, opts LintOptions, ceased *uint64) error {
	if opts.Directory == nil {
		return nil
	}

	changed, err := d.CeaseFeature(f, opts.DirectoryDate, opts.DryRun)
	if changed {
		log.Infof("Ceased postcode not in ONS DB: %s (ID %s)", postcode, id)
		atomic.AddUint64(ceased, 1)
	}

	return err
}
