package content

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// fontRootPattern extracts the leading alphabetic run of a font name.
// "Arial-BoldMT" yields "Arial"; names with no leading letters keep their
// full name as root.
var fontRootPattern = regexp.MustCompile(`^[A-Za-z]+`)

// FontKey identifies a font family root at a normalized size.
type FontKey struct {
	Root string  `json:"root"`
	Size float64 `json:"size"`
}

// NormalizeSize rounds a font size to the nearest half point.
func NormalizeSize(size float64) float64 {
	return math.Round(size*2) / 2
}

// ClusterFontNames groups raw font names by family root. It repeatedly
// takes the shortest unclustered name (ties broken lexicographically),
// derives its root from the leading alphabetic run, and assigns every
// remaining name containing that root as a substring to the same root.
// The result maps each input name to its root.
func ClusterFontNames(names []string) map[string]string {
	pool := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		pool = append(pool, name)
	}

	sort.Slice(pool, func(i, j int) bool {
		if len(pool[i]) != len(pool[j]) {
			return len(pool[i]) < len(pool[j])
		}
		return pool[i] < pool[j]
	})

	roots := make(map[string]string, len(pool))
	for len(pool) > 0 {
		shortest := pool[0]
		root := fontRootPattern.FindString(shortest)
		if root == "" {
			root = shortest
		}

		rest := pool[:0]
		for _, name := range pool {
			if strings.Contains(name, root) {
				roots[name] = root
			} else {
				rest = append(rest, name)
			}
		}
		pool = rest
	}
	return roots
}

// Histogram counts characters per font key.
type Histogram map[FontKey]int

// Add accumulates chars characters for the given key.
func (h Histogram) Add(key FontKey, chars int) {
	if chars <= 0 {
		return
	}
	h[key] += chars
}

// AddSpan accumulates the span's stripped character count under its font
// pair.
func (h Histogram) AddSpan(s Span) {
	h.Add(s.Key(), strippedLen(s.Text))
}

// Merge folds other into h.
func (h Histogram) Merge(other Histogram) {
	for key, count := range other {
		h[key] += count
	}
}

// Total returns the summed character count.
func (h Histogram) Total() int {
	total := 0
	for _, count := range h {
		total += count
	}
	return total
}

// sortedKeys returns the histogram keys ordered by descending count, with
// ties broken by root then size so the order is stable across runs.
func (h Histogram) sortedKeys() []FontKey {
	keys := make([]FontKey, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if h[keys[i]] != h[keys[j]] {
			return h[keys[i]] > h[keys[j]]
		}
		if keys[i].Root != keys[j].Root {
			return keys[i].Root < keys[j].Root
		}
		return keys[i].Size < keys[j].Size
	})
	return keys
}

// MostFrequent returns the key with the highest character count. The
// second return value is false for an empty histogram.
func (h Histogram) MostFrequent() (FontKey, bool) {
	if len(h) == 0 {
		return FontKey{}, false
	}
	return h.sortedKeys()[0], true
}

// TopKeys returns the n most frequent keys in descending count order, or
// all keys when fewer than n exist.
func (h Histogram) TopKeys(n int) []FontKey {
	keys := h.sortedKeys()
	if n < len(keys) {
		keys = keys[:n]
	}
	return keys
}
