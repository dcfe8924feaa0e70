package iconexport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kataras/figma-icon-export/pkg/design"
	"github.com/kataras/figma-icon-export/pkg/exporter"
	"github.com/kataras/figma-icon-export/pkg/figma"
	"github.com/kataras/figma-icon-export/pkg/formatter"
	"github.com/kataras/figma-icon-export/pkg/icon"
	"github.com/kataras/figma-icon-export/pkg/output"
)

// Version is the current release.
const Version = "1.0.0"

// Options configures an export.
type Options struct {
	AccessToken string
	FileURL     string   // Figma file URL
	NodeIDs     []string // empty = node-ids of the URL
	Page        string   // page name, empty = chosen from the node IDs or the first page

	// Snapshot is a page dump on disk. When set, Figma is not contacted and
	// components export their inline markup.
	Snapshot string

	Schema  string // "weight" (default) or "label"
	Workers int    // variant workers per icon, 0 = default

	Output string // file or directory for icons-export.json, empty = not written
	Report string // markdown catalog path, empty = none

	S3          *output.S3Config // nil = no object storage
	DatabaseURL string           // empty = no database

	// Savers receive the document in addition to the ones configured above.
	Savers []output.Saver

	Reporter exporter.Reporter
	Notifier exporter.Notifier
	Yield    exporter.Yielder // nil = short pause between icons
	Clock    exporter.Clock

	// FigmaOptions are passed to the Figma client, mostly for tests.
	FigmaOptions []figma.ClientOption

	Logger Logger // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the export output.
type Result struct {
	RunID    string
	PageName string

	Document *icon.ExportDocument
	Content  []byte // icons-export.json
	Markdown string // set when a report was requested

	// Locations lists where the document was saved.
	Locations []string

	Summary *exporter.Result
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

// Run loads the page, exports its icons and saves the document.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Schema == "" {
		opts.Schema = "weight"
	}
	if opts.Yield == nil {
		opts.Yield = exporter.Pause(time.Millisecond)
	}

	schema, err := icon.SchemaByName(opts.Schema)
	if err != nil {
		return nil, err
	}
	opts.logInfo("Using the %s schema (version %s)", opts.Schema, schema.Version)

	page, exp, err := loadPage(ctx, &opts)
	if err != nil {
		return nil, err
	}

	savers, closeSavers, err := buildSavers(ctx, &opts)
	if err != nil {
		return nil, err
	}
	defer closeSavers()

	result := &Result{RunID: output.NewRunID(), PageName: page.Name}

	// The pipeline hands the document over with a save event, the
	// configured savers persist it before success is reported.
	reporter := &saveReporter{
		next: opts.Reporter,
		save: func(ctx context.Context, ev exporter.Event) error {
			if len(savers) == 0 {
				return nil
			}
			opts.logInfo("Saving %s (run %s)...", ev.Filename, result.RunID)
			locs, err := savers.SaveAll(ctx, result.RunID, ev.Filename, []byte(ev.Content))
			result.Locations = locs
			if err != nil {
				opts.logError("Saving failed: %v", err)
			}
			return err
		},
	}

	pipeline := exporter.New(exporter.Options{
		Schema:   schema,
		Exporter: exp,
		Workers:  opts.Workers,
		Reporter: reporter,
		Notifier: opts.Notifier,
		Yield:    opts.Yield,
		Clock:    opts.Clock,
		Logger:   opts.Logger,
	})

	opts.logInfo("Exporting icons of page %q...", page.Name)
	summary, err := pipeline.Run(ctx, page)
	result.Summary = summary
	result.Document = summary.Document
	result.Content = summary.Content
	if err != nil {
		return result, fmt.Errorf("export: %w", err)
	}

	for _, name := range summary.FailedGroups {
		opts.logWarn("Skipped icon %q", name)
	}

	if opts.Report != "" {
		opts.logInfo("Generating markdown catalog...")
		result.Markdown = formatter.ToMarkdown(result.Document, page.Name, summary.FailedGroups)
		if err := writeFile(opts.Report, []byte(result.Markdown)); err != nil {
			return result, fmt.Errorf("write report: %w", err)
		}
	}

	return result, nil
}

// saveReporter forwards events to next and persists the save event.
type saveReporter struct {
	next exporter.Reporter
	save func(ctx context.Context, ev exporter.Event) error
}

func (r *saveReporter) Report(ev exporter.Event) {
	if r.next != nil {
		r.next.Report(ev)
	}
}

func (r *saveReporter) ReportSave(ctx context.Context, ev exporter.Event) error {
	err := r.save(ctx, ev)
	r.Report(ev)
	return err
}

// loadPage reads the page from the snapshot or from Figma and picks the
// matching exporter.
func loadPage(ctx context.Context, opts *Options) (*design.Page, design.Exporter, error) {
	if opts.Snapshot != "" {
		opts.logInfo("Reading snapshot %s...", opts.Snapshot)
		page, err := design.LoadSnapshot(opts.Snapshot)
		if err != nil {
			return nil, nil, fmt.Errorf("load snapshot: %w", err)
		}
		return page, design.InlineExporter{}, nil
	}

	if opts.AccessToken == "" {
		return nil, nil, errors.New("a Figma access token is required")
	}

	// Extract file key from URL.
	opts.logInfo("Extracting file key from URL...")
	fileKey, err := figma.ExtractFileKey(opts.FileURL)
	if err != nil {
		return nil, nil, fmt.Errorf("extract file key: %w", err)
	}
	opts.logInfo("File key: %s", fileKey)

	nodeIDs := opts.NodeIDs
	if len(nodeIDs) == 0 {
		if nodeIDs, err = figma.ExtractNodeIDs(opts.FileURL); err != nil {
			return nil, nil, fmt.Errorf("extract node IDs from URL: %w", err)
		}
	}
	if len(nodeIDs) > 0 {
		opts.logInfo("Using %d node ID(s) to pick the page", len(nodeIDs))
	}

	opts.logInfo("Authenticating with Figma API...")
	client := figma.NewClient(opts.AccessToken, opts.FigmaOptions...)

	opts.logInfo("Fetching file data from Figma...")
	file, err := client.GetFile(ctx, fileKey)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch file: %w", err)
	}
	opts.logInfo("File: %s", file.Name)

	page, err := figma.PageFromFile(file, figma.PageSelector{Name: opts.Page, NodeIDs: nodeIDs})
	if err != nil {
		return nil, nil, err
	}

	exp, err := figma.NewSVGExporter(client, fileKey, 0)
	if err != nil {
		return nil, nil, err
	}
	return page, exp, nil
}

// buildSavers returns the savers of opts and a func releasing them.
func buildSavers(ctx context.Context, opts *Options) (output.MultiSaver, func(), error) {
	var savers output.MultiSaver
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if opts.Output != "" {
		savers = append(savers, output.NewFileSaver(opts.Output))
	}

	if opts.S3 != nil {
		s3, err := output.NewS3Saver(*opts.S3)
		if err != nil {
			return nil, closeAll, fmt.Errorf("s3: %w", err)
		}
		opts.logInfo("Saving to bucket %s as well", opts.S3.Bucket)
		savers = append(savers, s3)
	}

	if opts.DatabaseURL != "" {
		db, err := output.OpenPostgres(opts.DatabaseURL)
		if err != nil {
			return nil, closeAll, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, closeAll, fmt.Errorf("ping database: %w", err)
		}
		closers = append(closers, func() { db.Close() })
		opts.logInfo("Saving to the database as well")
		savers = append(savers, output.NewPostgresSaver(db))
	}

	savers = append(savers, opts.Savers...)
	if len(savers) == 0 {
		opts.logWarn("No output configured, the document is only returned")
	}
	return savers, closeAll, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ParseNodeIDs splits a comma-separated list of node IDs, accepting the
// dash form used in URLs ("1-2" becomes "1:2").
func ParseNodeIDs(nodeIDsStr string) []string {
	parts := strings.Split(nodeIDsStr, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, strings.ReplaceAll(trimmed, "-", ":"))
		}
	}

	return result
}
