package svgcanon

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var shapeTags = map[string]bool{
	"path":     true,
	"rect":     true,
	"circle":   true,
	"ellipse":  true,
	"line":     true,
	"polyline": true,
	"polygon":  true,
}

// riskyAttrs make an element ineligible for removal: they may be referenced,
// styled or positioned from elsewhere.
var riskyAttrs = map[string]bool{
	"id":        true,
	"class":     true,
	"style":     true,
	"filter":    true,
	"mask":      true,
	"clip-path": true,
	"transform": true,
}

var opacityAttrs = map[string]bool{
	"opacity":        true,
	"fill-opacity":   true,
	"stroke-opacity": true,
}

var (
	openSVGPattern = regexp.MustCompile(`<svg[\s/>]`)
	attrPattern    = regexp.MustCompile(`([^\s=/>"']+)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>/]+))`)
	wsRun          = regexp.MustCompile(`\s+`)
)

type attr struct {
	name  string
	value string
}

type tag struct {
	name        string // local name, lowercased
	closing     bool
	selfClosing bool
	other       bool // comment, CDATA, declaration or processing instruction
	unparsed    bool // attribute text that could not be read reliably
	attrs       []attr
}

// Dedupe removes later exact duplicates of top-level leaf shape elements inside
// the outer <svg> wrapper. Only elements whose removal cannot change rendering
// are candidates; everything else is kept verbatim. On malformed input the
// markup is returned unchanged.
func Dedupe(svg string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = svg
		}
	}()

	loc := openSVGPattern.FindStringIndex(svg)
	if loc == nil {
		return svg
	}
	openEnd := tokenEnd(svg, loc[0])
	if openEnd < 0 {
		return svg
	}
	closeIdx := strings.LastIndex(svg, "</svg>")
	if closeIdx < openEnd {
		return svg
	}
	if strings.HasSuffix(strings.TrimSpace(svg[loc[0]:openEnd]), "/>") {
		return svg
	}

	return svg[:openEnd] + dedupeInner(svg[openEnd:closeIdx]) + svg[closeIdx:]
}

func dedupeInner(inner string) string {
	var b strings.Builder
	b.Grow(len(inner))

	seen := make(map[string]bool)
	depth := 0
	pos := 0

	for pos < len(inner) {
		lt := strings.IndexByte(inner[pos:], '<')
		if lt < 0 {
			b.WriteString(inner[pos:])
			break
		}
		lt += pos
		b.WriteString(inner[pos:lt])

		end := tokenEnd(inner, lt)
		if end < 0 {
			b.WriteString(inner[lt:])
			break
		}
		tok := inner[lt:end]
		t := parseTag(tok)

		switch {
		case t.other:
			b.WriteString(tok)
			pos = end
		case t.closing:
			depth--
			b.WriteString(tok)
			pos = end
		case depth > 0:
			if !t.selfClosing {
				depth++
			}
			b.WriteString(tok)
			pos = end
		default:
			spanEnd, leaf := end, t.selfClosing
			if !leaf {
				spanEnd, leaf = emptyPairEnd(inner, end, t.name)
				if !leaf {
					spanEnd = end
				}
			}

			if leaf && eligible(t) {
				key := canonicalKey(t)
				if seen[key] {
					pos = spanEnd
					continue
				}
				seen[key] = true
			}
			if !leaf {
				depth++
			}
			b.WriteString(inner[lt:spanEnd])
			pos = spanEnd
		}
	}

	return b.String()
}

// emptyPairEnd reports whether the start tag ending at from is immediately
// closed (only whitespace in between) and returns the end of the closing tag.
func emptyPairEnd(s string, from int, name string) (int, bool) {
	rest := s[from:]
	skip := len(rest) - len(strings.TrimLeft(rest, " \t\r\n"))
	next := from + skip
	if !strings.HasPrefix(s[next:], "</") {
		return from, false
	}
	end := tokenEnd(s, next)
	if end < 0 {
		return from, false
	}
	closing := parseTag(s[next:end])
	if !closing.closing || closing.name != name {
		return from, false
	}
	return end, true
}

// tokenEnd returns the index just past the markup token starting at s[i] ('<'),
// or -1 when the token is not terminated.
func tokenEnd(s string, i int) int {
	switch {
	case strings.HasPrefix(s[i:], "<!--"):
		if idx := strings.Index(s[i+4:], "-->"); idx >= 0 {
			return i + 4 + idx + 3
		}
		return -1
	case strings.HasPrefix(s[i:], "<![CDATA["):
		if idx := strings.Index(s[i+9:], "]]>"); idx >= 0 {
			return i + 9 + idx + 3
		}
		return -1
	}

	var quote byte
	for j := i + 1; j < len(s); j++ {
		c := s[j]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return j + 1
		}
	}
	return -1
}

func parseTag(tok string) tag {
	if strings.HasPrefix(tok, "<!") || strings.HasPrefix(tok, "<?") || len(tok) < 3 {
		return tag{other: true}
	}

	var t tag
	body := tok[1 : len(tok)-1]
	if strings.HasPrefix(body, "/") {
		t.closing = true
		body = body[1:]
	}
	body = strings.TrimSpace(body)
	if strings.HasSuffix(body, "/") {
		t.selfClosing = true
		body = strings.TrimSpace(body[:len(body)-1])
	}

	nameEnd := strings.IndexFunc(body, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	name, rest := body, ""
	if nameEnd >= 0 {
		name, rest = body[:nameEnd], body[nameEnd:]
	}
	t.name = localName(name)

	for _, m := range attrPattern.FindAllStringSubmatch(rest, -1) {
		value := m[2]
		if value == "" {
			value = m[3]
		}
		if value == "" {
			value = m[4]
		}
		t.attrs = append(t.attrs, attr{name: m[1], value: value})
	}
	if strings.TrimSpace(attrPattern.ReplaceAllString(rest, "")) != "" {
		t.unparsed = true
	}

	return t
}

func localName(name string) string {
	if idx := strings.LastIndexByte(name, ':'); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.ToLower(name)
}

// eligible reports whether removing a duplicate of t is guaranteed not to
// change rendering.
func eligible(t tag) bool {
	if !shapeTags[t.name] || t.unparsed {
		return false
	}

	for _, a := range t.attrs {
		name := strings.ToLower(a.name)
		value := strings.TrimSpace(a.value)

		if riskyAttrs[name] {
			return false
		}
		if strings.Contains(strings.ToLower(value), "url(#") {
			return false
		}
		if opacityAttrs[name] {
			v, err := strconv.ParseFloat(value, 64)
			if err != nil || (v != 0 && v != 1) {
				return false
			}
		}
		if name == "stroke" && !strings.EqualFold(value, "none") {
			return false
		}
	}

	return true
}

func canonicalKey(t tag) string {
	attrs := make([]string, 0, len(t.attrs))
	for _, a := range t.attrs {
		// data-* never renders and Normalize strips it.
		if strings.HasPrefix(strings.ToLower(a.name), "data-") {
			continue
		}
		value := strings.TrimSpace(wsRun.ReplaceAllString(a.value, " "))
		attrs = append(attrs, a.name+"="+strconv.Quote(value))
	}
	sort.Strings(attrs)
	return t.name + " " + strings.Join(attrs, " ")
}
