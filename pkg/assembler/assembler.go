// Package assembler turns a group of components into one icon record: it
// resolves tags, exports and canonicalizes every variant, validates and hashes
// the result, and orders the variants.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kataras/figma-icon-export/pkg/contenthash"
	"github.com/kataras/figma-icon-export/pkg/design"
	"github.com/kataras/figma-icon-export/pkg/icon"
	"github.com/kataras/figma-icon-export/pkg/naming"
	"github.com/kataras/figma-icon-export/pkg/svgcanon"
	"github.com/kataras/figma-icon-export/pkg/validate"
)

const (
	// DefaultWorkers is the number of variants exported concurrently per group.
	DefaultWorkers = 4
	// DefaultYieldEvery is the number of variants between cooperative yields.
	DefaultYieldEvery = 5
)

var (
	ErrEmptyGroup      = errors.New("group has no components")
	ErrNoVariants      = errors.New("no variant could be exported")
	ErrEmptyMarkup     = errors.New("export returned empty markup")
	ErrMalformedMarkup = errors.New("export did not return <svg> markup")
)

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Options configures an Assembler.
type Options struct {
	Schema   icon.Schema // zero value = icon.WeightSchema
	Exporter design.Exporter
	Settings design.ExportSettings // zero value = design.DefaultExportSettings

	// Cache memoizes canonicalization across groups. Optional.
	Cache *svgcanon.Cache

	Workers    int                       // 0 = DefaultWorkers
	YieldEvery int                       // 0 = DefaultYieldEvery
	Yield      func(ctx context.Context) // nil = never yield

	Logger Logger
}

// Stats counts what happened to variants across all Assemble calls.
type Stats struct {
	Exported           uint64
	Dropped            uint64
	ValidationWarnings uint64
	NameWarnings       uint64
}

// Assembler builds icon records. It is safe to reuse across groups of a run.
type Assembler struct {
	opts Options

	exported       atomic.Uint64
	dropped        atomic.Uint64
	validationWarn atomic.Uint64
	nameWarn       atomic.Uint64
}

// New returns an Assembler with defaults applied.
func New(opts Options) *Assembler {
	if opts.Schema.Version == "" {
		opts.Schema = icon.WeightSchema
	}
	if opts.Settings == (design.ExportSettings{}) {
		opts.Settings = design.DefaultExportSettings
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.YieldEvery <= 0 {
		opts.YieldEvery = DefaultYieldEvery
	}
	if opts.Exporter == nil {
		opts.Exporter = design.InlineExporter{}
	}
	return &Assembler{opts: opts}
}

func (a *Assembler) logWarn(f string, args ...any) {
	if a.opts.Logger != nil {
		a.opts.Logger.Warnf(f, args...)
	}
}

func (a *Assembler) logError(f string, args ...any) {
	if a.opts.Logger != nil {
		a.opts.Logger.Errorf(f, args...)
	}
}

// Stats returns a snapshot of the variant counters.
func (a *Assembler) Stats() Stats {
	return Stats{
		Exported:           a.exported.Load(),
		Dropped:            a.dropped.Load(),
		ValidationWarnings: a.validationWarn.Load(),
		NameWarnings:       a.nameWarn.Load(),
	}
}

// Assemble exports every component of g and returns the icon record. Variants
// that fail to export are logged and left out; the call only fails when the
// group is empty or no variant survives.
func (a *Assembler) Assemble(ctx context.Context, g icon.Group) (*icon.IconRecord, error) {
	if len(g.Components) == 0 {
		return nil, fmt.Errorf("%s: %w", g.BaseName, ErrEmptyGroup)
	}

	name := naming.KebabCase(g.BaseName)
	if name == "" {
		return nil, fmt.Errorf("base name %q has no usable characters", g.BaseName)
	}

	variants, err := a.exportVariants(ctx, g)
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("%s: %w", g.BaseName, ErrNoVariants)
	}
	a.opts.Schema.SortVariants(variants)

	return &icon.IconRecord{
		Name:     name,
		Tags:     ResolveTags(g.Components[0], g.BaseName),
		Variants: variants,
	}, nil
}

// exportVariants runs a small worker pool over the group's components. Workers
// claim indexes from a shared cursor and write into index-addressed slots, so
// the result order matches the component order regardless of completion order.
func (a *Assembler) exportVariants(ctx context.Context, g icon.Group) ([]icon.IconVariantRecord, error) {
	n := len(g.Components)
	slots := make([]*icon.IconVariantRecord, n)

	var cursor, done atomic.Int64
	workers := min(a.opts.Workers, n)

	eg, egCtx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			for {
				i := int(cursor.Add(1) - 1)
				if i >= n {
					return nil
				}

				c := g.Components[i]
				rec, err := a.exportVariant(egCtx, g.BaseName, c)
				if err != nil {
					a.dropped.Add(1)
					a.logError("%s: dropping variant %q: %v", g.BaseName, c.Name, err)
				} else {
					a.exported.Add(1)
					slots[i] = rec
				}

				if d := done.Add(1); a.opts.Yield != nil && d%int64(a.opts.YieldEvery) == 0 {
					a.opts.Yield(egCtx)
				}
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	variants := make([]icon.IconVariantRecord, 0, n)
	for _, rec := range slots {
		if rec != nil {
			variants = append(variants, *rec)
		}
	}
	return variants, nil
}

func (a *Assembler) exportVariant(ctx context.Context, baseName string, c *design.Component) (rec *icon.IconVariantRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	variant, warnings := naming.Resolve(c, baseName, a.opts.Schema)
	for _, w := range warnings {
		a.nameWarn.Add(1)
		a.logWarn("%s: %s", baseName, w)
	}

	raw, err := a.opts.Exporter.ExportSVG(ctx, c, a.opts.Settings)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrEmptyMarkup
	}
	if !strings.HasPrefix(trimmed, "<svg") {
		return nil, ErrMalformedMarkup
	}
	if !strings.HasSuffix(trimmed, "</svg>") {
		a.logWarn("%s: variant %s markup does not end with </svg>", baseName, variant)
	}

	var svg string
	if a.opts.Cache != nil {
		svg = a.opts.Cache.Canonicalize(raw)
	} else {
		svg = svgcanon.Canonicalize(raw, a.opts.Schema.ViewBox)
	}

	if res := validate.Validate(svg, variant, a.opts.Schema); !res.Valid {
		for _, e := range res.Errors {
			a.validationWarn.Add(1)
			a.logWarn("%s: variant %s: %s", baseName, variant, e)
		}
	}

	return &icon.IconVariantRecord{
		Variant: variant,
		SVG:     svg,
		Hash:    contenthash.Sum(svg),
	}, nil
}
