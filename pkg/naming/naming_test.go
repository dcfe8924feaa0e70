package naming

import (
	"reflect"
	"testing"

	"github.com/kataras/figma-icon-export/pkg/design"
	"github.com/kataras/figma-icon-export/pkg/icon"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"slash", "heart/Bold", "heart"},
		{"spaced dash", "arrow-left - Bold", "arrow-left"},
		{"double underscore", "star__fill", "star"},
		{"comma", "bell, duotone", "bell"},
		{"slash wins over dash", "x - y/z", "x - y"},
		{"no separator", "  plain  ", "plain"},
		{"hyphenated name kept whole", "arrow-left", "arrow-left"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaseName(tt.raw); got != tt.want {
				t.Errorf("BaseName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestKebabCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"arrowLeft Icon", "arrow-left-icon"},
		{"  Multi--Space  ", "multi-space"},
		{"snake_case_name", "snake-case-name"},
		{"Icon #1 (beta)", "icon-1-beta"},
		{"-already-kebab-", "already-kebab"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := KebabCase(tt.in); got != tt.want {
				t.Errorf("KebabCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveVariant(t *testing.T) {
	tests := []struct {
		name         string
		component    design.Component
		base         string
		want         icon.VariantDescriptor
		wantWarnings int
	}{
		{
			name:      "properties",
			component: design.Component{Name: "Weight=Bold, Duotone=true", VariantProperties: map[string]string{"Weight": "Bold", "Duotone": "true"}},
			base:      "heart",
			want:      icon.WeightVariant(icon.WeightBold, true),
		},
		{
			name:      "case-insensitive keys and substring weight",
			component: design.Component{Name: "x", VariantProperties: map[string]string{"STYLE": "Filled", "TONE": "Yes"}},
			base:      "x",
			want:      icon.WeightVariant(icon.WeightFill, true),
		},
		{
			name:      "line maps to regular",
			component: design.Component{Name: "x", VariantProperties: map[string]string{"weight": "Outline", "duotone": "no"}},
			base:      "x",
			want:      icon.WeightVariant(icon.WeightRegular, false),
		},
		{
			name:         "unknown weight is flagged",
			component:    design.Component{Name: "x", VariantProperties: map[string]string{"Weight": "Heavy", "Duotone": "false"}},
			base:         "x",
			want:         icon.WeightVariant(icon.WeightRegular, false),
			wantWarnings: 1,
		},
		{
			name:      "duotone missing falls back to name",
			component: design.Component{Name: "heart / duotone", VariantProperties: map[string]string{"Weight": "Bold"}},
			base:      "heart",
			want:      icon.WeightVariant(icon.WeightBold, true),
		},
		{
			name:      "name only",
			component: design.Component{Name: "heart / Bold Duotone"},
			base:      "heart",
			want:      icon.WeightVariant(icon.WeightBold, true),
		},
		{
			name:      "suffix overrides whole name",
			component: design.Component{Name: "bold-arrow / Regular"},
			base:      "bold-arrow",
			want:      icon.WeightVariant(icon.WeightRegular, false),
		},
		{
			name:      "stone is not a tone keyword",
			component: design.Component{Name: "stone"},
			base:      "stone",
			want:      icon.WeightVariant(icon.WeightRegular, false),
		},
		{
			name:      "no signal uses defaults",
			component: design.Component{Name: "heart"},
			base:      "heart",
			want:      icon.WeightVariant(icon.WeightRegular, false),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := ResolveVariant(&tt.component, tt.base)
			if got != tt.want {
				t.Errorf("ResolveVariant() = %v, want %v", got, tt.want)
			}
			if len(warnings) != tt.wantWarnings {
				t.Errorf("ResolveVariant() warnings = %v, want %d", warnings, tt.wantWarnings)
			}
		})
	}
}

func TestResolveLabel(t *testing.T) {
	tests := []struct {
		name         string
		component    design.Component
		base         string
		want         string
		wantWarnings int
	}{
		{
			name:      "variant property",
			component: design.Component{Name: "x", VariantProperties: map[string]string{"Variant": "Duotone"}},
			base:      "x",
			want:      "duotone",
		},
		{
			name:      "style before weight",
			component: design.Component{Name: "x", VariantProperties: map[string]string{"Weight": "bold", "Style": "fill"}},
			base:      "x",
			want:      "fill",
		},
		{
			name:         "first property value when no known key",
			component:    design.Component{Name: "x", VariantProperties: map[string]string{"Size": "Large", "Alpha": "Thin"}},
			base:         "x",
			want:         "thin",
			wantWarnings: 0,
		},
		{
			name:         "unknown label is flagged",
			component:    design.Component{Name: "x", VariantProperties: map[string]string{"Size": "Large"}},
			base:         "x",
			want:         "large",
			wantWarnings: 1,
		},
		{
			name:      "name suffix",
			component: design.Component{Name: "heart/Thin"},
			base:      "heart",
			want:      "thin",
		},
		{
			name:         "sentinel",
			component:    design.Component{Name: "heart"},
			base:         "heart",
			want:         "regular",
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := ResolveLabel(&tt.component, tt.base, icon.LabelSchema)
			if !got.IsLabel() || got.Label != tt.want {
				t.Errorf("ResolveLabel() = %v, want %v", got, tt.want)
			}
			if len(warnings) != tt.wantWarnings {
				t.Errorf("ResolveLabel() warnings = %v, want %d", warnings, tt.wantWarnings)
			}
		})
	}
}

func TestParseVariantName(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]string
	}{
		{"Weight=Bold, Duotone=true", map[string]string{"Weight": "Bold", "Duotone": "true"}},
		{"Style=Fill", map[string]string{"Style": "Fill"}},
		{"heart", nil},
		{"Weight=Bold, oops", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseVariantName(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseVariantName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
