package assembler

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kataras/figma-icon-export/pkg/design"
)

var (
	mdLink       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdBoldStar   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	mdBoldUnder  = regexp.MustCompile(`__(.*?)__`)
	mdItalicStar = regexp.MustCompile(`\*([^*\n]+)\*`)
	mdItalicUnd  = regexp.MustCompile(`\b_([^_\n]+)_\b`)
	mdCode       = regexp.MustCompile("`([^`]*)`")
	mdHeader     = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]*`)
	lineBreaks   = regexp.MustCompile(`\r?\n`)
	nameParts    = regexp.MustCompile(`[-_\s]+`)
)

// ResolveTags returns the normalized tags of an icon, taken from the first
// component's description, its markdown description, the component set's
// descriptions, or finally the words of the base name.
func ResolveTags(c *design.Component, baseName string) []string {
	if c != nil {
		if raw := describe(c.Description, c.DescriptionMarkdown); raw != "" {
			return NormalizeTags(raw)
		}
		if set := c.Set(); set != nil {
			if raw := describe(set.Description, set.DescriptionMarkdown); raw != "" {
				return NormalizeTags(raw)
			}
		}
	}
	return NormalizeTags(strings.Join(nameParts.Split(baseName, -1), ","))
}

func describe(plain, markdown string) string {
	if s := strings.TrimSpace(plain); s != "" {
		return s
	}
	if s := strings.TrimSpace(markdown); s != "" {
		return StripMarkdown(s)
	}
	return ""
}

// StripMarkdown removes bold, italic, inline code, header and link syntax and
// turns line breaks into comma separators.
func StripMarkdown(md string) string {
	s := mdLink.ReplaceAllString(md, "$1")
	s = mdBoldStar.ReplaceAllString(s, "$1")
	s = mdBoldUnder.ReplaceAllString(s, "$1")
	s = mdItalicStar.ReplaceAllString(s, "$1")
	s = mdItalicUnd.ReplaceAllString(s, "$1")
	s = mdCode.ReplaceAllString(s, "$1")
	s = mdHeader.ReplaceAllString(s, "")
	return lineBreaks.ReplaceAllString(s, ",")
}

// NormalizeTags splits raw on commas and returns the trimmed, lowercased,
// deduplicated and sorted entries. The result is never nil.
func NormalizeTags(raw string) []string {
	tags := make([]string, 0)
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
