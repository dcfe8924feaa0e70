// Package exporter drives a whole icon export run over one page: it scans the
// page, refuses to continue on duplicate icon names, assembles every group and
// hands the finished document to the host.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kataras/figma-icon-export/pkg/assembler"
	"github.com/kataras/figma-icon-export/pkg/design"
	"github.com/kataras/figma-icon-export/pkg/extractor"
	"github.com/kataras/figma-icon-export/pkg/icon"
	"github.com/kataras/figma-icon-export/pkg/naming"
	"github.com/kataras/figma-icon-export/pkg/svgcanon"
)

// Filename is the name the export document is saved under.
const Filename = "icons-export.json"

const (
	// DefaultYieldEvery is the number of groups between cooperative yields.
	DefaultYieldEvery = 5
	// NotifyTimeout is how long the duplicate-name alert stays visible.
	NotifyTimeout = 10 * time.Second
)

// State is the phase a run is in.
type State int

const (
	StateScanning State = iota
	StateDuplicateCheck
	StateProcessingSets
	StateProcessingIndividuals
	StateAssembling
	StateDone
	StateAborted
)

var stateNames = [...]string{
	"Scanning",
	"DuplicateCheck",
	"ProcessingSets",
	"ProcessingIndividuals",
	"Assembling",
	"Done",
	"Aborted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Errors that end a run before any variant is exported.
var (
	ErrNoPage         = errors.New("no page selected")
	ErrNoComponents   = errors.New("no components or component sets found on the page")
	ErrDuplicateNames = errors.New("duplicate icon names")
)

// DuplicateNamesError lists the base names that occur more than once.
type DuplicateNamesError struct {
	Names []string
}

func (e *DuplicateNamesError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateNames, strings.Join(e.Names, ", "))
}

// Unwrap makes errors.Is(err, ErrDuplicateNames) hold.
func (e *DuplicateNamesError) Unwrap() error { return ErrDuplicateNames }

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Options configures a Pipeline. Every collaborator is optional.
type Options struct {
	Schema   icon.Schema     // zero value = icon.WeightSchema
	Exporter design.Exporter // nil = design.InlineExporter

	// Cache memoizes canonical markup. A fresh one is made per run when nil.
	Cache *svgcanon.Cache

	Workers    int // variant workers per group, 0 = assembler.DefaultWorkers
	YieldEvery int // 0 = DefaultYieldEvery

	Reporter Reporter
	Notifier Notifier
	Yield    Yielder // nil = NoYield
	Clock    Clock   // nil = time.Now in UTC
	Logger   Logger
}

// Result summarizes a run.
type Result struct {
	Document *icon.ExportDocument
	// Content is the encoded document, exactly as sent with the save event.
	Content []byte

	// States lists every state the run entered, in order.
	States []State

	Sets         int
	Groups       int
	FailedGroups []string
	Variants     int
	Stats        assembler.Stats
	Duration     time.Duration
}

// Pipeline runs icon exports. A Pipeline may run many times; runs share no
// state other than the configured collaborators.
type Pipeline struct {
	opts Options
}

// New returns a Pipeline with defaults applied.
func New(opts Options) *Pipeline {
	if opts.Schema.Version == "" {
		opts.Schema = icon.WeightSchema
	}
	if opts.Exporter == nil {
		opts.Exporter = design.InlineExporter{}
	}
	if opts.YieldEvery <= 0 {
		opts.YieldEvery = DefaultYieldEvery
	}
	if opts.Yield == nil {
		opts.Yield = NoYield
	}
	if opts.Clock == nil {
		opts.Clock = utcNow
	}
	return &Pipeline{opts: opts}
}

type run struct {
	*Pipeline
	ctx    context.Context
	result *Result
	asm    *assembler.Assembler
	icons  []icon.IconRecord

	total, processed int
}

func (r *run) enter(s State) {
	r.result.States = append(r.result.States, s)
}

func (r *run) report(typ EventType, format string, args ...any) {
	if r.opts.Reporter != nil {
		r.opts.Reporter.Report(Event{Type: typ, Message: fmt.Sprintf(format, args...)})
	}
}

func (r *run) logInfo(f string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Infof(f, args...)
	}
}

func (r *run) logWarn(f string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Warnf(f, args...)
	}
}

func (r *run) logError(f string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Errorf(f, args...)
	}
}

// Run exports every icon of page. It returns an error only for the conditions
// that abort the whole run: a nil page, a page with nothing to export and
// duplicate icon names. Failing groups and variants are logged and left out.
func (p *Pipeline) Run(ctx context.Context, page *design.Page) (*Result, error) {
	start := time.Now()
	r := &run{Pipeline: p, ctx: ctx, result: &Result{}}

	r.enter(StateScanning)
	if page == nil {
		r.report(EventError, "Export failed: %v", ErrNoPage)
		return r.result, ErrNoPage
	}
	r.report(EventStatus, "Scanning page %q...", page.Name)

	inv := extractor.Scan(page)
	if inv.Empty() {
		r.report(EventError, "Export failed: %v", ErrNoComponents)
		return r.result, ErrNoComponents
	}
	sets, standalone := inv.SetGroups(), inv.StandaloneGroups()
	r.result.Sets = len(sets)
	r.result.Groups = len(standalone)
	r.total = len(sets) + len(standalone)
	r.logInfo("Found %d component sets and %d standalone components (%d components total)",
		len(inv.Sets), len(inv.Standalone), inv.ComponentCount())

	r.enter(StateDuplicateCheck)
	if dups := DuplicateNames(sets, standalone); len(dups) > 0 {
		r.enter(StateAborted)
		err := &DuplicateNamesError{Names: dups}
		if p.opts.Notifier != nil {
			p.opts.Notifier.Notify(fmt.Sprintf("Export aborted, duplicate icon names: %s. Rename them and export again.",
				strings.Join(dups, ", ")), true, NotifyTimeout)
		}
		return r.result, err
	}

	cache := p.opts.Cache
	if cache == nil {
		var err error
		if cache, err = svgcanon.NewCache(0, p.opts.Schema.ViewBox); err != nil {
			return r.result, fmt.Errorf("creating canonicalization cache: %w", err)
		}
	}
	r.asm = assembler.New(assembler.Options{
		Schema:   p.opts.Schema,
		Exporter: p.opts.Exporter,
		Cache:    cache,
		Workers:  p.opts.Workers,
		Yield:    p.opts.Yield,
		Logger:   p.opts.Logger,
	})

	if pf, ok := p.opts.Exporter.(design.Prefetcher); ok {
		r.report(EventStatus, "Resolving %d components...", inv.ComponentCount())
		if err := pf.Prefetch(ctx, inv.Components(), design.DefaultExportSettings); err != nil {
			r.logWarn("prefetch failed, exporting one by one: %v", err)
		}
	}

	r.enter(StateProcessingSets)
	r.report(EventStatus, "Processing %d component sets...", len(sets))
	r.processGroups(sets)

	r.enter(StateProcessingIndividuals)
	r.report(EventStatus, "Processing %d standalone icons...", len(standalone))
	r.processGroups(standalone)

	r.enter(StateAssembling)
	doc := r.assemble()
	content, err := icon.Encode(doc)
	if err != nil {
		r.report(EventError, "Export failed: %v", err)
		return r.result, err
	}
	r.result.Document = doc
	r.result.Content = content
	r.result.Stats = r.asm.Stats()

	r.enter(StateDone)
	if err := r.save(content); err != nil {
		r.report(EventError, "Export failed: %v", err)
		return r.result, err
	}
	r.report(EventSuccess, "Exported %d icons (%d variants)", doc.TotalIcons, r.result.Variants)
	r.result.Duration = time.Since(start)
	return r.result, nil
}

// save hands the document to the reporter. A SaveReporter confirms the write
// and its error fails the run.
func (r *run) save(content []byte) error {
	ev := Event{Type: EventSave, Content: string(content), Filename: Filename}
	switch rep := r.opts.Reporter.(type) {
	case nil:
	case SaveReporter:
		if err := rep.ReportSave(r.ctx, ev); err != nil {
			return fmt.Errorf("saving %s: %w", Filename, err)
		}
	default:
		rep.Report(ev)
	}
	return nil
}

func (r *run) processGroups(groups []icon.Group) {
	for i, g := range groups {
		rec, err := r.assembleGroup(g)
		if err != nil {
			r.result.FailedGroups = append(r.result.FailedGroups, g.BaseName)
			r.logError("skipping icon %q: %v", g.BaseName, err)
		} else {
			r.icons = append(r.icons, *rec)
			r.result.Variants += len(rec.Variants)
		}

		r.processed++
		r.report(EventProgress, "Processed %d/%d icons (%d%%)", r.processed, r.total, r.processed*100/r.total)
		if (i+1)%r.opts.YieldEvery == 0 {
			r.opts.Yield(r.ctx)
		}
	}
}

func (r *run) assembleGroup(g icon.Group) (rec *icon.IconRecord, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	return r.asm.Assemble(r.ctx, g)
}

func (r *run) assemble() *icon.ExportDocument {
	icons := r.icons
	if icons == nil {
		icons = []icon.IconRecord{}
	}
	sort.SliceStable(icons, func(i, j int) bool {
		return icons[i].Name < icons[j].Name
	})
	return &icon.ExportDocument{
		SchemaVersion: r.opts.Schema.Version,
		ExportedAt:    r.opts.Clock(),
		TotalIcons:    len(icons),
		Icons:         icons,
	}
}

// DuplicateNames returns the base names that occur more than once across the
// given groups, in first-seen order. Names are compared by their final
// kebab-case form, since that is what ends up in the document.
func DuplicateNames(groups ...[]icon.Group) []string {
	counts := make(map[string]int)
	first := make(map[string]string)
	var order []string
	for _, list := range groups {
		for _, g := range list {
			key := naming.KebabCase(g.BaseName)
			if key == "" {
				key = strings.TrimSpace(g.BaseName)
			}
			if _, ok := first[key]; !ok {
				first[key] = strings.TrimSpace(g.BaseName)
				order = append(order, key)
			}
			counts[key]++
		}
	}

	var dups []string
	for _, key := range order {
		if counts[key] > 1 {
			dups = append(dups, first[key])
		}
	}
	return dups
}
