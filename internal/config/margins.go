package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// defaultMargins is the page clip margin applied when no value is
// configured: left, top, right, bottom, in points.
var defaultMargins = [4]int{10, 10, 10, 10}

// ParsePageList parses a 1-based page selection like "6-11,14" into the
// expanded, ascending list of page numbers. Semicolons are accepted as
// separators alongside commas. Ranges are inclusive and must not be
// inverted. When pageCount is positive every page is checked against it.
// An empty selection returns nil, meaning all pages.
func ParsePageList(s string, pageCount int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	seen := map[int]bool{}
	for _, token := range strings.Split(strings.ReplaceAll(s, ";", ","), ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		first, last := token, token
		if i := strings.Index(token, "-"); i >= 0 {
			first, last = strings.TrimSpace(token[:i]), strings.TrimSpace(token[i+1:])
		}

		a, err := strconv.Atoi(first)
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q", first)
		}
		b, err := strconv.Atoi(last)
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q", last)
		}
		if a > b {
			return nil, fmt.Errorf("inverted page range %q", token)
		}
		for n := a; n <= b; n++ {
			if n < 1 {
				return nil, fmt.Errorf("page numbers are 1-based, got %d", n)
			}
			if pageCount > 0 && n > pageCount {
				return nil, fmt.Errorf("page %d out of range (document has %d pages)", n, pageCount)
			}
			seen[n] = true
		}
	}

	pages := make([]int, 0, len(seen))
	for n := range seen {
		pages = append(pages, n)
	}
	sort.Ints(pages)
	return pages, nil
}

// ParseMarginValues parses a margin value list: either a single value
// applied to all four sides or "left,top,right,bottom". Values are
// points and must be non-negative. An empty string returns the default
// margins.
func ParseMarginValues(s string) ([4]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultMargins, nil
	}

	parts := strings.Split(s, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return [4]int{}, fmt.Errorf("invalid margin value %q", strings.TrimSpace(part))
		}
		if v < 0 {
			return [4]int{}, fmt.Errorf("margin values must be non-negative, got %d", v)
		}
		values = append(values, v)
	}

	switch len(values) {
	case 1:
		return [4]int{values[0], values[0], values[0], values[0]}, nil
	case 4:
		return [4]int{values[0], values[1], values[2], values[3]}, nil
	default:
		return [4]int{}, fmt.Errorf("margins need 1 or 4 values, got %d", len(values))
	}
}

// ParseMarginSpec parses a per-page margin override specification of the
// form "<pages>:<margins>;...", e.g. "1-3,5:20;7:10,10,20,20". Pages use
// the ParsePageList grammar, margins the ParseMarginValues grammar. A
// page listed in several segments takes the last value. Returns nil for
// an empty specification.
func ParseMarginSpec(spec string, pageCount int) (map[int][4]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	overrides := map[int][4]int{}
	for _, segment := range strings.Split(spec, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		pagesPart, marginsPart, found := strings.Cut(segment, ":")
		if !found {
			return nil, fmt.Errorf("missing ':' separator in margin specification %q", segment)
		}
		if strings.TrimSpace(marginsPart) == "" {
			return nil, fmt.Errorf("missing margin values in %q", segment)
		}

		pages, err := ParsePageList(pagesPart, pageCount)
		if err != nil {
			return nil, err
		}
		if len(pages) == 0 {
			return nil, fmt.Errorf("missing pages in margin specification %q", segment)
		}
		margins, err := ParseMarginValues(marginsPart)
		if err != nil {
			return nil, err
		}

		for _, page := range pages {
			overrides[page] = margins
		}
	}
	return overrides, nil
}

// MarginsForPage resolves the effective margins of a page from the
// override map, falling back to base.
func MarginsForPage(overrides map[int][4]int, base [4]int, page int) [4]int {
	if margins, ok := overrides[page]; ok {
		return margins
	}
	return base
}
