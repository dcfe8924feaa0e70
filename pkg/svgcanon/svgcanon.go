// Package svgcanon turns raw exported SVG markup into byte-stable canonical
// markup: duplicate shapes are removed first, then whitespace and unstable
// attributes are normalized. Both steps work on text only.
package svgcanon

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	interTagSpace = regexp.MustCompile(`>\s+<`)
	viewBoxAttr   = regexp.MustCompile(`(?i)\sviewBox\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'>/]+)`)
	unstableAttrs = regexp.MustCompile(`\s+(?:id|class|(?i:data-)[\w.:-]+)\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'>/]+)`)
)

// Canonicalize removes safe duplicate shapes and then normalizes the markup,
// forcing the root viewBox to viewBox. Dedupe must run first because its
// eligibility rules look at the id and class attributes Normalize strips.
func Canonicalize(svg, viewBox string) string {
	return Normalize(Dedupe(svg), viewBox)
}

// Normalize collapses whitespace, forces the root viewBox and strips id, class
// and data-* attributes. If anything goes wrong the most recent intermediate
// result is returned.
func Normalize(svg, viewBox string) (out string) {
	out = svg
	defer func() {
		_ = recover()
	}()

	s := collapse(svg)
	out = s

	s = forceViewBox(s, viewBox)
	out = s

	s = unstableAttrs.ReplaceAllString(s, "")
	s = collapse(s)
	out = s

	return out
}

func collapse(s string) string {
	s = wsRun.ReplaceAllString(s, " ")
	s = interTagSpace.ReplaceAllString(s, "><")
	return strings.TrimSpace(s)
}

func forceViewBox(s, viewBox string) string {
	loc := openSVGPattern.FindStringIndex(s)
	if loc == nil {
		return s
	}
	end := tokenEnd(s, loc[0])
	if end < 0 {
		return s
	}

	open := s[loc[0]:end]
	want := ` viewBox="` + viewBox + `"`
	if locs := viewBoxAttr.FindAllStringIndex(open, -1); len(locs) > 0 {
		// The first one takes the forced value, any others (viewbox, VIEWBOX) go.
		var b strings.Builder
		prev := 0
		for i, l := range locs {
			b.WriteString(open[prev:l[0]])
			if i == 0 {
				b.WriteString(want)
			}
			prev = l[1]
		}
		b.WriteString(open[prev:])
		open = b.String()
	} else {
		open = "<svg" + want + open[len("<svg"):]
	}
	return s[:loc[0]] + open + s[end:]
}

// Cache memoizes canonical output per raw markup for the length of a run.
// It is safe for concurrent use.
type Cache struct {
	viewBox string
	entries *lru.Cache[string, string]
}

// NewCache returns a cache holding up to size canonical results for viewBox.
func NewCache(size int, viewBox string) (*Cache, error) {
	if size <= 0 {
		size = 512
	}
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Cache{viewBox: viewBox, entries: entries}, nil
}

// Canonicalize returns the cached canonical form of svg, computing it on a miss.
func (c *Cache) Canonicalize(svg string) string {
	if c == nil {
		return svg
	}
	if out, ok := c.entries.Get(svg); ok {
		return out
	}
	out := Canonicalize(svg, c.viewBox)
	c.entries.Add(svg, out)
	return out
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
