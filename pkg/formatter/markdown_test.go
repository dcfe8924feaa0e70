package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/kataras/figma-icon-export/pkg/icon"
)

func TestToMarkdown(t *testing.T) {
	doc := &icon.ExportDocument{
		SchemaVersion: "2.0.0",
		ExportedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		TotalIcons:    2,
		Icons: []icon.IconRecord{
			{
				Name: "bell",
				Tags: []string{"alert", "a|b"},
				Variants: []icon.IconVariantRecord{
					{Variant: icon.WeightVariant(icon.WeightBold, true), Hash: "0000000b"},
				},
			},
			{
				Name: "heart",
				Tags: []string{"love"},
				Variants: []icon.IconVariantRecord{
					{Variant: icon.WeightVariant(icon.WeightRegular, false), Hash: "0000000a"},
					{Variant: icon.WeightVariant(icon.WeightBold, true), Hash: "0000000c"},
				},
			},
		},
	}

	md := ToMarkdown(doc, "Icons", []string{"broken"})

	tests := []struct {
		name string
		want string
	}{
		{"title", "# Icon Export - Icons\n"},
		{"schema", "- **Schema Version**: 2.0.0\n"},
		{"timestamp", "- **Exported At**: 2026-01-02T03:04:05Z\n"},
		{"variant total", "- **Total Variants**: 3\n"},
		{"icon row", "| `heart` | love | Regular `0000000a`<br>Bold/duotone `0000000c` |\n"},
		{"escaped tags", `alert, a\|b`},
		{"coverage", "| Regular | 1 | 1 |\n| Bold/duotone | 2 | 0 |\n"},
		{"skipped", "- broken\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(md, tt.want) {
				t.Errorf("markdown does not contain %q:\n%s", tt.want, md)
			}
		})
	}
}

func TestToMarkdownEmpty(t *testing.T) {
	md := ToMarkdown(&icon.ExportDocument{SchemaVersion: "1.0.0"}, "Empty", nil)
	for _, section := range []string{"## Icons", "## Variant Coverage", "## Skipped Icons"} {
		if strings.Contains(md, section) {
			t.Errorf("empty document must not render %q", section)
		}
	}
}
