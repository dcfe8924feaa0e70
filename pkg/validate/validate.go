// Package validate checks canonical SVG markup against the structural and
// color policy rules of a schema. Results are advisory: callers log them and
// keep the variant.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kataras/figma-icon-export/pkg/icon"
)

var (
	openTag  = regexp.MustCompile(`<svg[\s/>]`)
	hexFill  = regexp.MustCompile(`fill="#[0-9A-Fa-f]{3,8}"`)
	closeTag = "</svg>"
)

// Result is the outcome of Validate. Errors holds every failed check.
type Result struct {
	Valid  bool
	Errors []string
}

// Validate runs every check against svg; none short-circuits.
func Validate(svg string, variant icon.VariantDescriptor, schema icon.Schema) Result {
	var errs []string
	trimmed := strings.TrimSpace(svg)

	if !strings.HasPrefix(trimmed, "<svg") || !strings.HasSuffix(trimmed, closeTag) {
		errs = append(errs, "markup is not wrapped in <svg>...</svg>")
	}

	opens := len(openTag.FindAllStringIndex(svg, -1))
	closes := strings.Count(svg, closeTag)
	if opens != closes {
		errs = append(errs, fmt.Sprintf("unbalanced svg tags: %d opening, %d closing", opens, closes))
	}

	if want := `viewBox="` + schema.ViewBox + `"`; !strings.Contains(svg, want) {
		errs = append(errs, fmt.Sprintf("missing required %s", want))
	}

	if schema.IsTone(variant) {
		if !strings.Contains(svg, schema.ToneMarker) {
			errs = append(errs, fmt.Sprintf("tone variant %s is missing %s", variant, schema.ToneMarker))
		}
	} else if m := hexFill.FindString(svg); m != "" {
		errs = append(errs, fmt.Sprintf("variant %s uses hardcoded color %s", variant, m))
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
