package wofdata

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	uri "github.com/whosonfirst/go-whosonfirst-uri"
	"github.com/whosonfirst/wof-classify-os-postcodes/onsdb"
	"github.com/whosonfirst/wof-classify-os-postcodes/postcodeareas"
	"github.com/whosonfirst/wof-classify-os-postcodes/postcodevalidator"
)

func copyExporter(feature []byte, original []byte, wr io.Writer) (bool, error) {
	if bytes.Equal(feature, original) {
		return false, nil
	}

	_, err := wr.Write(feature)
	return true, err
}

func feature(id int64, name string, placetype string, country string, extra string) string {
	return fmt.Sprintf(`{"id":%d,"type":"Feature","properties":{"wof:id":%d,"wof:name":%q,"wof:placetype":%q,"wof:country":%q,"mz:is_current":1%s},"geometry":{"type":"Point","coordinates":[0,0]}}`,
		id, id, name, placetype, country, extra)
}

func writeFeatures(t *testing.T, root string, features map[int64]string) {
	t.Helper()

	for id, body := range features {
		path, err := uri.Id2AbsPath(root, id)
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
}

func readFeature(t *testing.T, root string, id int64) []byte {
	t.Helper()

	path, err := uri.Id2AbsPath(root, id)
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)

	return body
}

func newTestClassifier(t *testing.T) *postcodevalidator.Classifier {
	t.Helper()

	areas, err := postcodeareas.Default()
	require.NoError(t, err)

	c, err := postcodevalidator.New(areas)
	require.NoError(t, err)

	return c
}

func newTestDirectory(t *testing.T, postcodes ...string) *onsdb.ONSDB {
	t.Helper()

	csvBody := "pcds,dointr,doterm,oscty,oslaua,osgrdind,ctry,rgn,lat,long\n"
	for _, pc := range postcodes {
		csvBody += pc + ",198001,,,,1,E92000001,,51.5,-0.1\n"
	}

	csvPath := filepath.Join(t.TempDir(), "ONSPD.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(csvBody), 0644))

	directory := onsdb.NewONSDB(csvPath)
	require.NoError(t, directory.Build())

	return directory
}

func fixtures() map[int64]string {
	return map[int64]string{
		1001: feature(1001, "SW1A 1AA", "postalcode", "GB", ""),
		1002: feature(1002, "SW1A", "postalcode", "GB", ""),
		1003: feature(1003, "sw1a 1aa", "postalcode", "GB", ""),
		1004: feature(1004, "10115", "postalcode", "DE", ""),
		1005: feature(1005, "SW1A", "postalregion", "GB", ""),
		1006: feature(1006, "NOT A POSTCODE", "postalcode", "GB", `,"edtf:deprecated":"2020-01-01"`),
		1007: feature(1007, "YO1 7JN", "postalcode", "GB", ""),
	}
}

func TestIterate(t *testing.T) {
	root := t.TempDir()
	writeFeatures(t, root, fixtures())
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# data"), 0644))

	d := NewWOFData(root, copyExporter)

	count := 0
	names := make(chan string, 10)
	require.NoError(t, d.Iterate(func(f []byte) error {
		names <- gjson.GetBytes(f, "properties.wof:name").String()
		return nil
	}))
	close(names)

	for range names {
		count++
	}

	assert.Equal(t, len(fixtures()), count)
}

func TestDeprecateFeature(t *testing.T) {
	root := t.TempDir()
	writeFeatures(t, root, fixtures())

	d := NewWOFData(root, copyExporter)
	d.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }

	changed, err := d.DeprecateFeature(readFeature(t, root, 1002), false)
	require.NoError(t, err)
	assert.True(t, changed)

	body := readFeature(t, root, 1002)
	assert.Equal(t, "2026-10-17", gjson.GetBytes(body, "properties.edtf:deprecated").String())
	assert.Equal(t, int64(0), gjson.GetBytes(body, "properties.mz:is_current").Int())

	changed, err = d.DeprecateFeature(readFeature(t, root, 1006), false)
	require.NoError(t, err)
	assert.False(t, changed, "already deprecated features are left alone")
}

func TestDeprecateFeatureDryRun(t *testing.T) {
	root := t.TempDir()
	writeFeatures(t, root, fixtures())

	d := NewWOFData(root, nil)

	original := readFeature(t, root, 1002)

	changed, err := d.DeprecateFeature(original, true)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, original, readFeature(t, root, 1002))

	_, err = d.DeprecateFeature(original, false)
	require.Error(t, err, "writing needs an exporter")
}

func TestLint(t *testing.T) {
	root := t.TempDir()
	writeFeatures(t, root, fixtures())

	d := NewWOFData(root, copyExporter)

	stats, err := d.Lint(newTestClassifier(t), LintOptions{})
	require.NoError(t, err)

	assert.Equal(t, uint64(5), stats.Checked)
	assert.Equal(t, uint64(2), stats.Skipped)
	assert.Equal(t, uint64(2), stats.Valid)
	assert.Equal(t, uint64(2), stats.Deprecated)

	for _, id := range []int64{1002, 1003} {
		body := readFeature(t, root, id)
		assert.Truef(t, gjson.GetBytes(body, "properties.edtf:deprecated").Exists(), "%d should be deprecated", id)
		assert.Equal(t, int64(0), gjson.GetBytes(body, "properties.mz:is_current").Int())
	}

	for _, id := range []int64{1001, 1004, 1005, 1007} {
		body := readFeature(t, root, id)
		assert.Falsef(t, gjson.GetBytes(body, "properties.edtf:deprecated").Exists(), "%d should be untouched", id)
	}
}

func TestLintDryRunWithPrefix(t *testing.T) {
	root := t.TempDir()
	writeFeatures(t, root, fixtures())

	d := NewWOFData(root, nil)

	stats, err := d.Lint(newTestClassifier(t), LintOptions{PrefixFilter: "SW", DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), stats.Checked)
	assert.Equal(t, uint64(1), stats.Valid)
	assert.Equal(t, uint64(1), stats.Deprecated)

	body := readFeature(t, root, 1002)
	assert.False(t, gjson.GetBytes(body, "properties.edtf:deprecated").Exists())
}

func TestLintMissingName(t *testing.T) {
	root := t.TempDir()
	writeFeatures(t, root, map[int64]string{
		1001: `{"id":1001,"type":"Feature","properties":{"wof:placetype":"postalcode"}}`,
	})

	d := NewWOFData(root, copyExporter)

	_, err := d.Lint(newTestClassifier(t), LintOptions{})
	require.Error(t, err)
}

func TestLintCeasesMissingPostcodes(t *testing.T) {
	root := t.TempDir()
	writeFeatures(t, root, fixtures())

	directory := newTestDirectory(t, "SW1A 1AA")

	d := NewWOFData(root, copyExporter)

	stats, err := d.Lint(newTestClassifier(t), LintOptions{
		Directory:     directory,
		DirectoryDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), stats.Valid)
	assert.Equal(t, uint64(1), stats.Ceased)

	body := readFeature(t, root, 1007)
	assert.Equal(t, "2026-08-01", gjson.GetBytes(body, "properties.edtf:cessation").String())
	assert.Equal(t, int64(0), gjson.GetBytes(body, "properties.mz:is_current").Int())

	body = readFeature(t, root, 1001)
	assert.False(t, gjson.GetBytes(body, "properties.edtf:cessation").Exists())

	changed, err := d.CeaseFeature(readFeature(t, root, 1007), time.Now(), false)
	require.NoError(t, err)
	assert.False(t, changed, "already ceased features are left alone")
}

func TestLintKeepsListedPostcodes(t *testing.T) {
	root := t.TempDir()
	writeFeatures(t, root, map[int64]string{
		2001: feature(2001, "GIR 0AA", "postalcode", "GB", ""),
		2002: feature(2002, "GIR 0AB", "postalcode", "GB", ""),
	})

	require.False(t, postcodevalidator.Validate("GIR 0AA"))

	d := NewWOFData(root, copyExporter)

	stats, err := d.Lint(newTestClassifier(t), LintOptions{
		Directory:     newTestDirectory(t, "GIR 0AA"),
		DirectoryDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), stats.Checked)
	assert.Equal(t, uint64(1), stats.Valid)
	assert.Equal(t, uint64(1), stats.Deprecated)
	assert.Equal(t, uint64(0), stats.Ceased)

	body := readFeature(t, root, 2001)
	assert.False(t, gjson.GetBytes(body, "properties.edtf:deprecated").Exists(), "listed postcodes are never deprecated")
	assert.False(t, gjson.GetBytes(body, "properties.edtf:cessation").Exists())
	assert.Equal(t, int64(1), gjson.GetBytes(body, "properties.mz:is_current").Int())

	body = readFeature(t, root, 2002)
	assert.True(t, gjson.GetBytes(body, "properties.edtf:deprecated").Exists(), "unlisted invalid postcodes are still deprecated")
}
