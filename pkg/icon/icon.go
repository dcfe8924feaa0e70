// Package icon holds the records produced by an icon export run and the
// schema generations that shape them.
package icon

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/kataras/figma-icon-export/pkg/design"
)

// Weight is the stroke weight of an icon variant in the weight schema.
type Weight string

// Weights recognized by the weight schema, in sort order.
const (
	WeightRegular Weight = "Regular"
	WeightBold    Weight = "Bold"
	WeightFill    Weight = "Fill"
)

// Weights lists the recognized weights in rank order.
var Weights = []Weight{WeightRegular, WeightBold, WeightFill}

// Rank returns the sort rank of the weight. Unrecognized weights rank last.
func (w Weight) Rank() int {
	for i, known := range Weights {
		if w == known {
			return i
		}
	}
	return len(Weights)
}

// VariantDescriptor identifies one variant of an icon. In the weight schema it
// is a weight plus a duotone flag; in the label schema it is a single label.
type VariantDescriptor struct {
	Weight  Weight
	Duotone bool
	Label   string

	labeled bool
}

// WeightVariant returns a weight schema descriptor.
func WeightVariant(w Weight, duotone bool) VariantDescriptor {
	return VariantDescriptor{Weight: w, Duotone: duotone}
}

// LabelVariant returns a label schema descriptor.
func LabelVariant(label string) VariantDescriptor {
	return VariantDescriptor{Label: label, labeled: true}
}

// IsLabel reports whether the descriptor belongs to the label schema.
func (v VariantDescriptor) IsLabel() bool { return v.labeled }

func (v VariantDescriptor) String() string {
	if v.labeled {
		return v.Label
	}
	if v.Duotone {
		return string(v.Weight) + "/duotone"
	}
	return string(v.Weight)
}

type weightVariantJSON struct {
	Weight  Weight `json:"weight"`
	Duotone bool   `json:"duotone"`
}

// MarshalJSON writes a label as a bare string and a weight variant as
// {"weight": ..., "duotone": ...}.
func (v VariantDescriptor) MarshalJSON() ([]byte, error) {
	if v.labeled {
		return json.Marshal(v.Label)
	}
	return json.Marshal(weightVariantJSON{Weight: v.Weight, Duotone: v.Duotone})
}

// UnmarshalJSON accepts both encodings.
func (v *VariantDescriptor) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return err
		}
		*v = LabelVariant(label)
		return nil
	}

	var wv weightVariantJSON
	if err := json.Unmarshal(data, &wv); err != nil {
		return err
	}
	*v = WeightVariant(wv.Weight, wv.Duotone)
	return nil
}

// IconVariantRecord is one exported, canonicalized variant. Hash is a pure
// function of SVG.
type IconVariantRecord struct {
	Variant VariantDescriptor `json:"variant"`
	SVG     string            `json:"svg"`
	Hash    string            `json:"hash"`
}

// IconRecord is a single icon with all of its variants.
type IconRecord struct {
	Name     string              `json:"name"`
	Tags     []string            `json:"tags"`
	Variants []IconVariantRecord `json:"variants"`
}

// ExportDocument is the file an export run writes.
type ExportDocument struct {
	SchemaVersion string       `json:"schemaVersion"`
	ExportedAt    time.Time    `json:"exportedAt"`
	TotalIcons    int          `json:"totalIcons"`
	Icons         []IconRecord `json:"icons"`
}

// Group is a base name plus the components believed to be variants of the
// same icon.
type Group struct {
	BaseName   string
	Components []*design.Component
	// FromSet is true when the group was formed from a component set's children.
	FromSet bool
}
