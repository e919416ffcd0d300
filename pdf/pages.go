package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// PageRange is an inclusive, 0-indexed range of page indices.
type PageRange struct {
	Start int
	End   int
}

// ParsePageRanges parses a comma-separated page selection like
// "0-2,5,7-9" into inclusive 0-indexed ranges. A lone number selects a
// single page. Malformed or negative parts are errors; out-of-range
// indices are handled later by ExpandRanges, not here.
func ParsePageRanges(s string) ([]PageRange, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("page range is empty")
	}

	parts := strings.Split(s, ",")
	ranges := make([]PageRange, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)

		if before, after, found := strings.Cut(part, "-"); found {
			start, err := parsePageIndex(before)
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q: %w", part, err)
			}
			end, err := parsePageIndex(after)
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q: %w", part, err)
			}
			if end < start {
				return nil, fmt.Errorf("invalid page range %q: end before start", part)
			}
			ranges = append(ranges, PageRange{Start: start, End: end})
			continue
		}

		page, err := parsePageIndex(part)
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q: %w", part, err)
		}
		ranges = append(ranges, PageRange{Start: page, End: page})
	}

	return ranges, nil
}

func parsePageIndex(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if n < 0 {
		return 0, fmt.Errorf("negative page index")
	}
	return n, nil
}

// ExpandRanges flattens ranges into the ordered list of selected page
// indices, clamped to the document: indices past the last page are
// silently dropped, so "7-9" on an 8-page document selects page 7 only.
// Duplicate selections are preserved in order.
func ExpandRanges(ranges []PageRange, pageCount int) []int {
	var pages []int
	for _, r := range ranges {
		for i := r.Start; i <= r.End && i < pageCount; i++ {
			pages = append(pages, i)
		}
	}
	return pages
}
