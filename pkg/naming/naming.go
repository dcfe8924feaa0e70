// Package naming derives icon base names, variant descriptors and kebab-case
// identifiers from component metadata.
//
// All functions are pure: the same component always resolves to the same
// result, and missing or unconventional input falls back to defaults rather
// than failing.
package naming

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kataras/figma-icon-export/pkg/design"
	"github.com/kataras/figma-icon-export/pkg/icon"
)

// Separators split a component name into base name and variant suffix. They
// are tested in this order; the first one present wins.
var Separators = []string{"/", " - ", "__", ","}

var (
	weightKeys  = []string{"weight", "style", "variant", "type"}
	duotoneKeys = []string{"duotone", "tone", "two-tone"}
	labelKeys   = []string{"variant", "style", "weight", "type"}
)

// BaseName returns the trimmed part of raw before the first separator, or the
// trimmed raw name when no separator occurs.
func BaseName(raw string) string {
	for _, sep := range Separators {
		if idx := strings.Index(raw, sep); idx >= 0 {
			return strings.TrimSpace(raw[:idx])
		}
	}
	return strings.TrimSpace(raw)
}

// suffix returns the trimmed text after the last recognized separator. When the
// name has no separator but starts with baseName, the remainder is used.
func suffix(name, baseName string) string {
	best, bestLen := -1, 0
	for _, sep := range Separators {
		if idx := strings.LastIndex(name, sep); idx > best {
			best, bestLen = idx, len(sep)
		}
	}
	if best >= 0 {
		return strings.TrimSpace(name[best+bestLen:])
	}

	trimmed := strings.TrimSpace(name)
	if baseName != "" && len(trimmed) > len(baseName) && strings.HasPrefix(strings.ToLower(trimmed), strings.ToLower(baseName)) {
		return strings.Trim(trimmed[len(baseName):], " -_")
	}
	return ""
}

// NormalizeWeight maps raw to a recognized weight: exact case-insensitive match
// first, then substring heuristics. Unrecognized values return Regular and false.
func NormalizeWeight(raw string) (icon.Weight, bool) {
	raw = strings.TrimSpace(raw)
	for _, w := range icon.Weights {
		if strings.EqualFold(raw, string(w)) {
			return w, true
		}
	}
	return weightKeyword(strings.ToLower(raw))
}

func weightKeyword(lower string) (icon.Weight, bool) {
	switch {
	case strings.Contains(lower, "bold"):
		return icon.WeightBold, true
	case strings.Contains(lower, "fill"):
		return icon.WeightFill, true
	case strings.Contains(lower, "regular"), strings.Contains(lower, "line"):
		return icon.WeightRegular, true
	default:
		return icon.WeightRegular, false
	}
}

// IsTruthy reports whether a duotone-like property value means true.
func IsTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}

var toneWord = regexp.MustCompile(`(^|[^a-z])(duo-?tone|two-?tone|tone)([^a-z]|$)`)

func hasToneKeyword(lower string) bool {
	return strings.Contains(lower, "duotone") || toneWord.MatchString(lower)
}

func lookup(c *design.Component, keys []string) (string, bool) {
	for _, key := range keys {
		if v, ok := c.Property(key); ok {
			return v, true
		}
	}
	return "", false
}

// ResolveVariant derives the weight schema descriptor of c. Structured variant
// properties win; whatever they leave unresolved is taken from the display
// name, where the suffix after the last separator overrides keywords found in
// the whole name. The returned warnings are advisory.
func ResolveVariant(c *design.Component, baseName string) (icon.VariantDescriptor, []string) {
	var warnings []string
	weight, duotone := icon.WeightRegular, false
	weightFound, duotoneFound := false, false

	if c.HasVariantProperties() {
		if raw, ok := lookup(c, weightKeys); ok {
			w, known := NormalizeWeight(raw)
			if !known {
				warnings = append(warnings, fmt.Sprintf("unrecognized weight %q, using %s", raw, w))
			}
			weight, weightFound = w, true
		}
		if raw, ok := lookup(c, duotoneKeys); ok {
			duotone, duotoneFound = IsTruthy(raw), true
		}
	}

	if !weightFound || !duotoneFound {
		nameWeight, nameDuotone, hasWeight, hasDuotone := fromName(c.Name, baseName)
		if !weightFound && hasWeight {
			weight = nameWeight
		}
		if !duotoneFound && hasDuotone {
			duotone = nameDuotone
		}
	}

	return icon.WeightVariant(weight, duotone), warnings
}

func fromName(name, baseName string) (weight icon.Weight, duotone, hasWeight, hasDuotone bool) {
	weight = icon.WeightRegular

	scan := func(s string) {
		lower := strings.ToLower(s)
		if hasToneKeyword(lower) {
			duotone, hasDuotone = true, true
		}
		if w, ok := weightKeyword(lower); ok {
			weight, hasWeight = w, true
		}
	}

	scan(name)
	if s := suffix(name, baseName); s != "" {
		scan(s)
	}
	return
}

// ResolveLabel derives the label schema descriptor of c: the first matching
// label property, else the first property value by key order, else the name
// suffix. Unresolved names use schema.DefaultLabel.
func ResolveLabel(c *design.Component, baseName string, schema icon.Schema) (icon.VariantDescriptor, []string) {
	var warnings []string
	label := ""

	if c.HasVariantProperties() {
		if raw, ok := lookup(c, labelKeys); ok {
			label = raw
		} else {
			keys := make([]string, 0, len(c.VariantProperties))
			for k := range c.VariantProperties {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if v := strings.TrimSpace(c.VariantProperties[k]); v != "" {
					label = v
					break
				}
			}
		}
	}
	if strings.TrimSpace(label) == "" {
		label = suffix(c.Name, baseName)
	}

	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		warnings = append(warnings, fmt.Sprintf("could not resolve variant of %q, using %q", c.Name, schema.DefaultLabel))
		return icon.LabelVariant(schema.DefaultLabel), warnings
	}
	if !schema.IsKnownLabel(label) {
		warnings = append(warnings, fmt.Sprintf("unrecognized variant %q", label))
	}
	return icon.LabelVariant(label), warnings
}

// Resolve dispatches to ResolveVariant or ResolveLabel depending on the schema.
func Resolve(c *design.Component, baseName string, schema icon.Schema) (icon.VariantDescriptor, []string) {
	if schema.Kind == icon.KindLabel {
		return ResolveLabel(c, baseName, schema)
	}
	return ResolveVariant(c, baseName)
}

// ParseVariantName parses a variant component name such as
// "Weight=Bold, Duotone=true" into its properties. It returns nil when the
// name is not in that form.
func ParseVariantName(name string) map[string]string {
	if !strings.Contains(name, "=") {
		return nil
	}
	props := make(map[string]string)
	for _, part := range strings.Split(name, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil
		}
		props[key] = strings.TrimSpace(value)
	}
	return props
}

var (
	camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	spaceRun      = regexp.MustCompile(`[\s_]+`)
	invalidChars  = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// KebabCase converts s to kebab-case: camelCase boundaries and whitespace or
// underscore runs become single hyphens, other punctuation is dropped.
func KebabCase(s string) string {
	s = camelBoundary.ReplaceAllString(s, "$1-$2")
	s = spaceRun.ReplaceAllString(s, "-")
	s = strings.ToLower(s)
	s = invalidChars.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
