package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kataras/figma-icon-export/pkg/icon"
)

// ToMarkdown renders an export document as a markdown catalog: a summary, one
// table row per icon with its tags and variant hashes, and the variant coverage
// of the set. skipped lists icons that were left out of the export.
func ToMarkdown(doc *icon.ExportDocument, title string, skipped []string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Icon Export - %s\n\n", title))
	sb.WriteString("This document catalogs every icon of the export, with the content hash of each variant.\n\n")

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Schema Version**: %s\n", doc.SchemaVersion))
	sb.WriteString(fmt.Sprintf("- **Exported At**: %s\n", doc.ExportedAt.UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("- **Total Icons**: %d\n", doc.TotalIcons))
	sb.WriteString(fmt.Sprintf("- **Total Variants**: %d\n", countVariants(doc)))
	sb.WriteString("\n")

	if len(doc.Icons) > 0 {
		sb.WriteString("## Icons\n\n")
		sb.WriteString("| Icon | Tags | Variants |\n")
		sb.WriteString("|------|------|----------|\n")
		for _, ic := range doc.Icons {
			variants := make([]string, 0, len(ic.Variants))
			for _, v := range ic.Variants {
				variants = append(variants, fmt.Sprintf("%s `%s`", v.Variant, v.Hash))
			}
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n", ic.Name, escapeCell(strings.Join(ic.Tags, ", ")), strings.Join(variants, "<br>")))
		}
		sb.WriteString("\n")

		// Coverage
		coverage := variantCoverage(doc)
		sb.WriteString("## Variant Coverage\n\n")
		sb.WriteString("| Variant | Icons | Missing |\n")
		sb.WriteString("|---------|-------|---------|\n")
		for _, c := range coverage {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d |\n", c.variant, c.icons, doc.TotalIcons-c.icons))
		}
		sb.WriteString("\n")
	}

	if len(skipped) > 0 {
		sb.WriteString("## Skipped Icons\n\n")
		sb.WriteString("These icons could not be exported and are missing from the document:\n\n")
		for _, name := range skipped {
			sb.WriteString(fmt.Sprintf("- %s\n", name))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func countVariants(doc *icon.ExportDocument) int {
	n := 0
	for _, ic := range doc.Icons {
		n += len(ic.Variants)
	}
	return n
}

type coverage struct {
	variant icon.VariantDescriptor
	icons   int
}

// variantCoverage counts the icons providing each variant, in variant order.
func variantCoverage(doc *icon.ExportDocument) []coverage {
	index := make(map[string]int)
	var out []coverage
	for _, ic := range doc.Icons {
		for _, v := range ic.Variants {
			key := v.Variant.String()
			i, ok := index[key]
			if !ok {
				i = len(out)
				index[key] = i
				out = append(out, coverage{variant: v.Variant})
			}
			out[i].icons++
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].variant, out[j].variant
		if a.IsLabel() || b.IsLabel() {
			return a.Label < b.Label
		}
		if a.Weight.Rank() != b.Weight.Rank() {
			return a.Weight.Rank() < b.Weight.Rank()
		}
		return !a.Duotone && b.Duotone
	})
	return out
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
