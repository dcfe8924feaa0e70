package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	iconexport "github.com/kataras/figma-icon-export"
	"github.com/kataras/figma-icon-export/pkg/config"
	"github.com/kataras/figma-icon-export/pkg/exporter"
	"github.com/kataras/figma-icon-export/pkg/output"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = iconexport.Version

var (
	envFile     string
	figmaURL    string
	accessToken string
	nodeIDs     string
	pageName    string
	snapshot    string
	outputPath  string
	schemaName  string
	workers     int
	reportFile  string
	noStorage   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "icon-export",
		Short: "Export the icons of a Figma page as normalized JSON",
		Long:  "A tool to export icon components from a Figma page (or an offline page snapshot) into a single icons-export.json document with canonical SVG markup, tags and content hashes",
		Run:   run,
	}

	rootCmd.Flags().StringVar(&envFile, "env", "", "Load settings from this .env file (default ./.env when present)")
	rootCmd.Flags().StringVarP(&figmaURL, "url", "u", "", "Figma file URL (or FIGMA_FILE_URL)")
	rootCmd.Flags().StringVarP(&accessToken, "token", "t", "", "Figma Personal Access Token (or FIGMA_TOKEN)")
	rootCmd.Flags().StringVarP(&nodeIDs, "node-ids", "n", "", "Comma-separated node IDs selecting the page (optional, defaults to the node-id of the URL)")
	rootCmd.Flags().StringVarP(&pageName, "page", "p", "", "Name of the page to export (optional)")
	rootCmd.Flags().StringVarP(&snapshot, "snapshot", "s", "", "Export from a page snapshot JSON file instead of the Figma API")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultOutput, "Output file or directory")
	rootCmd.Flags().StringVar(&schemaName, "schema", "weight", "Variant schema: weight or label")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Variant export workers per icon (0 = default)")
	rootCmd.Flags().StringVarP(&reportFile, "report", "r", "", "Also write a markdown catalog to this file")
	rootCmd.Flags().BoolVar(&noStorage, "no-storage", false, "Skip the S3 and database savers even when configured")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("icon-export version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cyan.Println("\n🎨 Figma Icon Export")
	cyan.Println("====================")
	cyan.Println()

	var (
		cfg *config.Config
		err error
	)
	if envFile != "" {
		cfg, err = config.Load(envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Flags win over the environment.
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.FileURL = figmaURL
	}
	if flags.Changed("token") {
		cfg.FigmaToken = accessToken
	}
	if flags.Changed("page") {
		cfg.Page = pageName
	}
	if flags.Changed("snapshot") {
		cfg.Snapshot = snapshot
	}
	if flags.Changed("output") {
		cfg.Output = outputPath
	}
	if flags.Changed("schema") {
		cfg.Schema = schemaName
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("report") {
		cfg.Report = reportFile
	}

	if cfg.Snapshot == "" && (cfg.FileURL == "" || cfg.FigmaToken == "") {
		red.Println("Error: --url and --token are required unless --snapshot is given")
		os.Exit(1)
	}

	opts := iconexport.Options{
		AccessToken: cfg.FigmaToken,
		FileURL:     cfg.FileURL,
		Page:        cfg.Page,
		Snapshot:    cfg.Snapshot,
		Schema:      cfg.Schema,
		Workers:     cfg.Workers,
		Output:      cfg.Output,
		Report:      cfg.Report,
		Reporter:    &cliReporter{},
		Notifier:    &cliNotifier{},
		Logger:      &cliLogger{},
	}
	if nodeIDs != "" {
		opts.NodeIDs = iconexport.ParseNodeIDs(nodeIDs)
	}
	if !noStorage {
		if cfg.S3.Enabled {
			opts.S3 = &output.S3Config{
				Endpoint:  cfg.S3.Endpoint,
				Region:    cfg.S3.Region,
				AccessKey: cfg.S3.AccessKey,
				SecretKey: cfg.S3.SecretKey,
				Bucket:    cfg.S3.Bucket,
				UseSSL:    cfg.S3.UseSSL,
			}
		}
		opts.DatabaseURL = cfg.DatabaseURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := iconexport.Run(ctx, opts)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Display export stats.
	summary := result.Summary
	cyan.Println("\n📊 Export Summary:")
	fmt.Printf("  • Icons: %d (%d from component sets, %d standalone)\n",
		result.Document.TotalIcons, summary.Sets, summary.Groups)
	fmt.Printf("  • Variants: %d\n", summary.Variants)
	if summary.Stats.Dropped > 0 {
		fmt.Printf("  • Dropped Variants: %d\n", summary.Stats.Dropped)
	}
	if summary.Stats.ValidationWarnings > 0 {
		fmt.Printf("  • Validation Warnings: %d\n", summary.Stats.ValidationWarnings)
	}
	if len(summary.FailedGroups) > 0 {
		fmt.Printf("  • Skipped Icons: %d\n", len(summary.FailedGroups))
	}
	fmt.Printf("  • Schema Version: %s\n", result.Document.SchemaVersion)
	fmt.Printf("  • Duration: %s\n", summary.Duration.Round(time.Millisecond))

	for _, loc := range result.Locations {
		green.Printf("\n💾 Saved %s ✓", loc)
	}
	if cfg.Report != "" {
		green.Printf("\n📝 Wrote catalog to %s ✓", cfg.Report)
	}

	green.Printf("\n\n✨ Successfully exported %d icons (run %s)\n\n", result.Document.TotalIcons, result.RunID)
}

// cliLogger implements iconexport.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}

// cliReporter prints pipeline events. The save event carries the document
// itself and is handled by the savers, so it is not printed.
type cliReporter struct{}

func (r *cliReporter) Report(ev exporter.Event) {
	switch ev.Type {
	case exporter.EventStatus, exporter.EventProgress:
		color.New(color.FgCyan).Println(ev.Message)
	case exporter.EventSuccess:
		color.New(color.FgGreen).Println("✓ " + ev.Message)
	case exporter.EventError:
		color.New(color.FgRed).Println("✗ " + ev.Message)
	}
}

// cliNotifier prints user alerts. The display timeout has no meaning in a terminal.
type cliNotifier struct{}

func (n *cliNotifier) Notify(message string, isError bool, _ time.Duration) {
	if isError {
		color.New(color.FgRed, color.Bold).Println("✗ " + message)
		return
	}
	color.New(color.FgYellow).Println("⚠ " + message)
}
