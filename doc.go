// Package iconexport exports the icon components of a Figma page as a single
// normalized JSON document (icons-export.json): one record per icon with its
// tags and every style variant as canonical SVG markup plus a content hash.
//
// The CLI lives in cmd/icon-export; this root package exposes the same
// pipeline as a Go API so that callers can embed the export in their own
// tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named iconexport:
//
//	import "github.com/kataras/figma-icon-export" // package iconexport
//
// # Quick start
//
//	result, err := iconexport.Run(ctx, iconexport.Options{
//	    AccessToken: os.Getenv("FIGMA_TOKEN"),
//	    FileURL:     "https://www.figma.com/design/ABC123/Icons?node-id=0-1",
//	    Output:      "dist",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Document.TotalIcons, "icons saved to", result.Locations)
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
//
//	type myLogger struct{}
//	func (l *myLogger) Infof(f string, a ...any)  { log.Printf("[INFO]  "+f, a...) }
//	func (l *myLogger) Warnf(f string, a ...any)  { log.Printf("[WARN]  "+f, a...) }
//	func (l *myLogger) Errorf(f string, a ...any) { log.Printf("[ERROR] "+f, a...) }
//
// Status, progress and result messages meant for an end user arrive as
// events on [Options.Reporter]; the duplicate-name alert arrives on
// [Options.Notifier].
//
// # Offline export
//
// Set [Options.Snapshot] to a JSON dump of a page to export without
// contacting Figma. Components of a snapshot carry their markup inline.
//
// # Schemas
//
// The "weight" schema (2.0.0) orders variants by stroke weight with a
// duotone flag; the older "label" schema (1.0.0) keys variants by free-form
// style labels. Both produce the same document layout.
//
// # Storage
//
// Besides [Options.Output], a document can be stored in an S3 bucket
// ([Options.S3]) or a PostgreSQL table ([Options.DatabaseURL]). Every save
// of a run uses the same run ID, see [Result.RunID].
package iconexport
