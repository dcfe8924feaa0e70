package icon

import (
	"fmt"
	"sort"
	"strings"
)

// Kind selects how variants are described.
type Kind int

const (
	// KindWeight describes variants as weight + duotone, driven by variant properties.
	KindWeight Kind = iota
	// KindLabel describes variants as a single free-form label.
	KindLabel
)

// Schema is one generation of the export format.
type Schema struct {
	Kind    Kind
	Version string

	// ViewBox is the value every canonical SVG is forced to carry.
	ViewBox string
	// ToneMarker must appear in every tone variant's markup.
	ToneMarker string

	// Labels is the allowed label set (label schema only).
	Labels []string
	// ToneLabels are the labels rendered with a tone overlay (label schema only).
	ToneLabels []string
	// DefaultLabel is used when no label can be resolved.
	DefaultLabel string
}

const defaultViewBox = "0 0 24 24"

// WeightSchema is the property-driven generation.
var WeightSchema = Schema{
	Kind:       KindWeight,
	Version:    "2.0.0",
	ViewBox:    defaultViewBox,
	ToneMarker: `opacity="0.2"`,
}

// LabelSchema is the name-driven generation.
var LabelSchema = Schema{
	Kind:         KindLabel,
	Version:      "1.0.0",
	ViewBox:      defaultViewBox,
	ToneMarker:   `opacity="0.2"`,
	Labels:       []string{"thin", "light", "regular", "bold", "fill", "duotone"},
	ToneLabels:   []string{"duotone"},
	DefaultLabel: "regular",
}

// SchemaByName returns the schema generation called name ("weight" or "label").
func SchemaByName(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "weight", "v2", "2", "2.0.0":
		return WeightSchema, nil
	case "label", "v1", "1", "1.0.0":
		return LabelSchema, nil
	default:
		return Schema{}, fmt.Errorf("unknown schema %q (must be weight or label)", name)
	}
}

// IsTone reports whether v is rendered with the tone overlay.
func (s Schema) IsTone(v VariantDescriptor) bool {
	if s.Kind == KindLabel {
		return containsFold(s.ToneLabels, v.Label)
	}
	return v.Duotone
}

// IsKnownLabel reports whether label belongs to the allowed label set.
func (s Schema) IsKnownLabel(label string) bool {
	return containsFold(s.Labels, label)
}

// SortVariants orders variants in place: by weight rank then non-duotone first
// for the weight schema, alphabetically by label for the label schema.
func (s Schema) SortVariants(variants []IconVariantRecord) {
	sort.SliceStable(variants, func(i, j int) bool {
		a, b := variants[i].Variant, variants[j].Variant
		if s.Kind == KindLabel {
			return a.Label < b.Label
		}
		if ra, rb := a.Weight.Rank(), b.Weight.Rank(); ra != rb {
			return ra < rb
		}
		return !a.Duotone && b.Duotone
	})
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
