package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRanges(t *testing.T) {
	ranges, err := ParsePageRanges("0-2,5,7-9")
	require.NoError(t, err)
	assert.Equal(t, []PageRange{{0, 2}, {5, 5}, {7, 9}}, ranges)
}

func TestParsePageRangesWithSpaces(t *testing.T) {
	ranges, err := ParsePageRanges(" 0 - 2 , 5 ")
	require.NoError(t, err)
	assert.Equal(t, []PageRange{{0, 2}, {5, 5}}, ranges)
}

func TestParsePageRangesSinglePage(t *testing.T) {
	ranges, err := ParsePageRanges("3")
	require.NoError(t, err)
	assert.Equal(t, []PageRange{{3, 3}}, ranges)
}

func TestParsePageRangesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"letters", "abc"},
		{"half range", "1-"},
		{"missing start", "-3"},
		{"inverted", "5-2"},
		{"negative", "-1-2"},
		{"trailing comma", "1,"},
		{"range in range", "1-2-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePageRanges(tt.input)
			assert.Error(t, err, "input %q", tt.input)
		})
	}
}

func TestExpandRanges(t *testing.T) {
	ranges, err := ParsePageRanges("0-2,5,7-9")
	require.NoError(t, err)

	pages := ExpandRanges(ranges, 10)
	assert.Equal(t, []int{0, 1, 2, 5, 7, 8, 9}, pages)
}

func TestExpandRangesClampsToLastPage(t *testing.T) {
	ranges, err := ParsePageRanges("7-9")
	require.NoError(t, err)

	pages := ExpandRanges(ranges, 8)
	assert.Equal(t, []int{7}, pages, "past-the-end indices are dropped, not an error")
}

func TestExpandRangesFullyOutOfRange(t *testing.T) {
	ranges, err := ParsePageRanges("12-15")
	require.NoError(t, err)

	pages := ExpandRanges(ranges, 10)
	assert.Empty(t, pages)
}

func TestExpandRangesKeepsDuplicates(t *testing.T) {
	ranges, err := ParsePageRanges("1,1-2")
	require.NoError(t, err)

	pages := ExpandRanges(ranges, 5)
	assert.Equal(t, []int{1, 1, 2}, pages)
}
