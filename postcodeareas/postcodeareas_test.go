package postcodeareas

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 124, s.Len())

	for _, code := range []string{"SO", "W", "SW", "NW", "EH", "TR", "NG", "YO", "B", "BA", "GY", "IM", "JE", "ZE"} {
		assert.Truef(t, s.Contains(code), "expected %q in the default areas", code)
	}

	for _, code := range []string{"ZZ", "Q", "SO16", "", "S O"} {
		assert.Falsef(t, s.Contains(code), "did not expect %q in the default areas", code)
	}
}

func TestLoad(t *testing.T) {
	src := "SO\n\n  w \n\tSW\nsw\n\n   \nNW\r\nEH\n"

	s, err := Load(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"EH", "NW", "SO", "SW", "W"}, s.Codes())
	assert.True(t, s.Contains("so"))
	assert.True(t, s.Contains(" W "))
	assert.False(t, s.Contains("SO16"))
}

func TestLoadMalformed(t *testing.T) {
	tests := map[string]string{
		"digits":       "SO\nS0\n",
		"too long":     "SO\nSOX\n",
		"punctuation":  "SO\nS-\n",
		"two columns":  "SO\nSW,NW\n",
		"bare quote":   "SO\nS\"W\n",
		"inner space":  "SO\nS W\n",
		"non-ascii":    "SO\nÅ\n",
		"only numbers": "1\n",
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := Load(strings.NewReader(src))
			require.Nil(t, s)
			require.Error(t, err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	for _, src := range []string{"", "\n\n", "   \n\t\n"} {
		s, err := Load(strings.NewReader(src))
		require.Nil(t, s)
		require.ErrorIs(t, err, ErrEmpty)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestLoadUnreadable(t *testing.T) {
	_, err := Load(failingReader{})

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "disk on fire")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "areas")

	require.NoError(t, os.WriteFile(path, []byte("YO\nTR\n"), 0644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"TR", "YO"}, s.Codes())

	_, err = LoadFile(filepath.Join(dir, "missing"))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, filepath.Join(dir, "missing"), loadErr.Source)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew(t *testing.T) {
	s, err := New("so", " yo ", "SO")
	require.NoError(t, err)
	assert.Equal(t, []string{"SO", "YO"}, s.Codes())

	_, err = New()
	require.ErrorIs(t, err, ErrEmpty)

	_, err = New("SO", "S1")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 2, loadErr.Entry)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCodesIsACopy(t *testing.T) {
	s, err := New("SO")
	require.NoError(t, err)

	codes := s.Codes()
	codes[0] = "ZZ"

	assert.True(t, s.Contains("SO"))
	assert.False(t, s.Contains("ZZ"))
}

func TestNilSet(t *testing.T) {
	var s *Set

	assert.False(t, s.Contains("SO"))
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Codes())
}
