package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WrapSourceUnavailable(nil, "x.gaf"))
	assert.False(t, IsSourceUnavailable(nil))
}

func TestWrapSourceUnavailable(t *testing.T) {
	base := New("no such file or directory")
	err := WrapSourceUnavailable(base, "missing.gaf")

	assert.True(t, IsSourceUnavailable(err))
	assert.True(t, Is(err, base), "original cause must stay reachable")
	assert.Contains(t, err.Error(), `source "missing.gaf"`)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestSourceUnavailableSurvivesHints(t *testing.T) {
	err := WrapSourceUnavailable(ErrUnsupportedScheme, "ftp://example.org/a.gaf")
	err = WithHint(err, "download the file and pass a local path")
	err = Wrap(err, "parse")

	assert.True(t, IsSourceUnavailable(err))
	assert.True(t, Is(err, ErrUnsupportedScheme))
	assert.Contains(t, GetAllHints(err), "download the file and pass a local path")
}

func TestNewInvalidConfigError(t *testing.T) {
	err := NewInvalidConfigError("parser.format %q is not supported", "csv")

	assert.True(t, Is(err, ErrInvalidConfig))
	assert.Equal(t, `parser.format "csv" is not supported`, err.Error())
	assert.False(t, Is(err, ErrSourceUnavailable))
}

func ExampleWrap() {
	baseErr := New("connection refused")
	err := Wrap(baseErr, "failed to fetch association file")
	fmt.Println(err)
	// Output: failed to fetch association file: connection refused
}
