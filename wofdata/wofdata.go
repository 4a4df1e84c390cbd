package wofdata

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/saracen/walker"
	"github.com/sfomuseum/go-edtf"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	export "github.com/whosonfirst/go-whosonfirst-export/v2"
	uri "github.com/whosonfirst/go-whosonfirst-uri"
)

const edtfDateLayout = "2006-01-02"

// Exporter writes the WOF-formatted version of feature to wr, reporting
// whether it differs from original.
type Exporter func(feature []byte, original []byte, wr io.Writer) (changed bool, err error)

// ExportWithOptions returns an Exporter backed by go-whosonfirst-export.
func ExportWithOptions(opts *export.Options) Exporter {
	return func(feature []byte, original []byte, wr io.Writer) (bool, error) {
		return export.ExportChanged(feature, original, opts, wr)
	}
}

type WOFData struct {
	dataPath string
	exporter Exporter
	now      func() time.Time
}

func NewWOFData(dataPath string, exporter Exporter) *WOFData {
	data := &WOFData{dataPath: dataPath, exporter: exporter, now: time.Now}

	return data
}

// Iterate fires the provided callback for every non-alt GeoJSON file in the
// WOFData path. Callbacks run concurrently.
func (d *WOFData) Iterate(cb func(f []byte) error) error {
	walkFn := func(path string, fi os.FileInfo) error {
		if fi.IsDir() || !strings.HasSuffix(path, ".geojson") {
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

		return cb(f)
	}

	return walker.Walk(d.dataPath, walkFn)
}

// DeprecateFeature deprecates the provided feature and writes it to disk.
func (d *WOFData) DeprecateFeature(f []byte, dryRun bool) (changed bool, err error) {
	json := string(f)
	originalJSON := string(f)

	deprecated := edtf.UNSPECIFIED
	result := gjson.Get(json, "properties.edtf:deprecated")
	if result.Exists() {
		deprecated = result.String()
	}

	if deprecated != edtf.UNSPECIFIED && deprecated != "" {
		log.Debugf("ID %s already deprecated, skipping", gjson.Get(json, "id").String())
		return
	}

	json, err = sjson.Set(json, "properties.edtf:deprecated", d.now().Format(edtfDateLayout))
	if err != nil {
		return
	}

	json, err = sjson.Set(json, "properties.mz:is_current", 0)
	if err != nil {
		return
	}

	if dryRun {
		changed = true
		return
	}

	changed, err = d.exportFeature(json, originalJSON)
	return
}

// CeaseFeature ceases the provided feature as of date and writes it to disk.
func (d *WOFData) CeaseFeature(f []byte, date time.Time, dryRun bool) (changed bool, err error) {
	json := string(f)
	originalJSON := string(f)

	cessation := edtf.UNSPECIFIED
	result := gjson.Get(json, "properties.edtf:cessation")
	if result.Exists() {
		cessation = result.String()
	}

	if cessation != edtf.UNSPECIFIED && cessation != "" {
		log.Debugf("ID %s already ceased, skipping", gjson.Get(json, "id").String())
		return
	}

	json, err = sjson.Set(json, "properties.edtf:cessation", date.Format(edtfDateLayout))
	if err != nil {
		return
	}

	json, err = sjson.Set(json, "properties.mz:is_current", 0)
	if err != nil {
		return
	}

	if dryRun {
		changed = true
		return
	}

	changed, err = d.exportFeature(json, originalJSON)
	return
}

func (d *WOFData) exportFeature(json string, originalJSON string) (changed bool, err error) {
	if d.exporter == nil {
		err = errors.New("no exporter configured")
		return
	}

	var outputBuf bytes.Buffer
	writer := bufio.NewWriter(&outputBuf)

	changed, err = d.exporter([]byte(json), []byte(originalJSON), writer)
	if err != nil || !changed {
		return
	}

	err = writer.Flush()
	if err != nil {
		return
	}

	jsonBytes := outputBuf.Bytes()

	idResult := gjson.GetBytes(jsonBytes, "id")
	if !idResult.Exists() {
		err = errors.New("missing `id` field in JSON")
		return
	}

	path, err := uri.Id2AbsPath(d.dataPath, idResult.Int())
	if err != nil {
		return
	}

	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return
	}

	log.Infof("Writing to file %s", path)

	err = os.WriteFile(path, jsonBytes, 0644)
	return
}
