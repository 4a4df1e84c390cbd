// Package postcodeareas holds the set of valid UK postcode areas, the one or
// two letter prefix of every postcode ("SO", "W", "EH" ...).
package postcodeareas

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	scanner "github.com/smartystreets/scanners/csv"
)

//go:embed uk_postcode_areas
var defaultAreas []byte

// DefaultSource is the name reported in errors for the embedded area list.
const DefaultSource = "uk_postcode_areas"

var (
	// ErrEmpty is returned when a source yields no area codes at all.
	ErrEmpty = errors.New("no postcode areas found")

	// ErrMalformed is returned when an entry is not one or two letters.
	ErrMalformed = errors.New("malformed postcode area")
)

// LoadError describes a failure to build a Set from its source. It is always
// fatal: a partial or empty set is never returned.
type LoadError struct {
	Source string
	// Entry is the 1-based index of the offending non-blank entry, or 0 when
	// the failure is not tied to a single entry.
	Entry int
	Err   error
}

func (e *LoadError) Error() string {
	if e.Entry > 0 {
		return fmt.Sprintf("cannot load postcode areas from %s (entry %d): %v", e.Source, e.Entry, e.Err)
	}

	return fmt.Sprintf("cannot load postcode areas from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Set is an immutable set of uppercase postcode areas.
type Set struct {
	codes map[string]struct{}
}

// Default loads the area list compiled into the binary.
func Default() (*Set, error) {
	return load(DefaultSource, bytes.NewReader(defaultAreas))
}

// LoadFile loads an area list from the file at path.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	return load(path, f)
}

// Load reads one area code per line from r. Surrounding whitespace is trimmed,
// blank lines are skipped and codes are stored uppercased.
func Load(r io.Reader) (*Set, error) {
	return load("reader", r)
}

// New builds a Set from literal codes, applying the same rules as Load.
func New(codes ...string) (*Set, error) {
	s := &Set{codes: make(map[string]struct{}, len(codes))}

	for i, code := range codes {
		err := s.add(code)
		if err != nil {
			return nil, &LoadError{Source: "literal", Entry: i + 1, Err: err}
		}
	}

	if len(s.codes) == 0 {
		return nil, &LoadError{Source: "literal", Err: ErrEmpty}
	}

	return s, nil
}

func load(source string, r io.Reader) (*Set, error) {
	s := &Set{codes: make(map[string]struct{})}

	sc := scanner.NewScanner(r)
	entry := 0

	for sc.Scan() {
		record := sc.Record()

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		entry++

		if len(record) != 1 {
			return nil, &LoadError{Source: source, Entry: entry, Err: fmt.Errorf("%w: %q", ErrMalformed, strings.Join(record, ","))}
		}

		err := s.add(record[0])
		if err != nil {
			return nil, &LoadError{Source: source, Entry: entry, Err: err}
		}
	}

	err := sc.Error()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			err = fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		return nil, &LoadError{Source: source, Err: err}
	}

	if len(s.codes) == 0 {
		return nil, &LoadError{Source: source, Err: ErrEmpty}
	}

	return s, nil
}

func (s *Set) add(code string) error {
	code = canonical(code)

	if !isAreaShaped(code) {
		return fmt.Errorf("%w: %q", ErrMalformed, code)
	}

	s.codes[code] = struct{}{}
	return nil
}

// Contains reports whether code is a known area, ignoring case and
// surrounding whitespace.
func (s *Set) Contains(code string) bool {
	if s == nil {
		return false
	}

	_, ok := s.codes[canonical(code)]
	return ok
}

// Len returns the number of areas in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}

	return len(s.codes)
}

// Codes returns a sorted copy of the areas in the set.
func (s *Set) Codes() []string {
	if s == nil {
		return nil
	}

	codes := make([]string, 0, len(s.codes))
	for code := range s.codes {
		codes = append(codes, code)
	}

	sort.Strings(codes)
	return codes
}

func canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func isAreaShaped(code string) bool {
	if len(code) < 1 || len(code) > 2 {
		return false
	}

	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}

	return true
}
