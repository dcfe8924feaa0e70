package figma

import (
	"context"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kataras/figma-icon-export/pkg/design"
)

const (
	maxNodesPerRequest  = 100
	defaultURLCacheSize = 4096
)

// SVGExporter exports components of one Figma file through the images API.
// Render URLs are resolved in batches by Prefetch and kept in an LRU cache;
// ExportSVG falls back to a single-node request on a cache miss. It is safe for
// concurrent use.
type SVGExporter struct {
	client  *Client
	fileKey string

	urls *lru.Cache[string, string]
	mu   sync.Mutex // serializes images API requests
}

// NewSVGExporter returns an exporter for the file identified by fileKey.
// cacheSize <= 0 selects a default.
func NewSVGExporter(client *Client, fileKey string, cacheSize int) (*SVGExporter, error) {
	if cacheSize <= 0 {
		cacheSize = defaultURLCacheSize
	}
	urls, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating URL cache: %w", err)
	}
	return &SVGExporter{client: client, fileKey: fileKey, urls: urls}, nil
}

func imageOptions(settings design.ExportSettings) ImageOptions {
	return ImageOptions{
		Format:         "svg",
		OutlineText:    settings.OutlineText,
		IncludeID:      !settings.OmitIDs,
		SimplifyStroke: settings.SimplifyStroke,
	}
}

func cacheKey(id string, opts ImageOptions) string {
	return fmt.Sprintf("%s|%t|%t|%t", id, opts.OutlineText, opts.IncludeID, opts.SimplifyStroke)
}

// Prefetch resolves the render URLs of components in batches of at most
// maxNodesPerRequest IDs.
func (e *SVGExporter) Prefetch(ctx context.Context, components []*design.Component, settings design.ExportSettings) error {
	opts := imageOptions(settings)

	var ids []string
	seen := make(map[string]struct{}, len(components))
	for _, c := range components {
		if c == nil || c.ID == "" {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		if _, ok := e.urls.Get(cacheKey(c.ID, opts)); !ok {
			ids = append(ids, c.ID)
		}
	}

	for start := 0; start < len(ids); start += maxNodesPerRequest {
		end := min(start+maxNodesPerRequest, len(ids))
		if err := e.resolve(ctx, ids[start:end], opts); err != nil {
			return fmt.Errorf("prefetching batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

func (e *SVGExporter) resolve(ctx context.Context, ids []string, opts ImageOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	resp, err := e.client.GetImages(ctx, e.fileKey, ids, opts)
	if err != nil {
		return err
	}
	for id, u := range resp.Images {
		if u != "" {
			e.urls.Add(cacheKey(id, opts), u)
		}
	}
	return nil
}

// ExportSVG downloads the SVG markup of c.
func (e *SVGExporter) ExportSVG(ctx context.Context, c *design.Component, settings design.ExportSettings) (string, error) {
	if c == nil || c.ID == "" {
		return "", fmt.Errorf("component has no node ID")
	}
	if settings.Format != "" && settings.Format != design.FormatSVGString {
		return "", fmt.Errorf("unsupported export format %q", settings.Format)
	}

	opts := imageOptions(settings)
	key := cacheKey(c.ID, opts)
	u, ok := e.urls.Get(key)
	if !ok {
		if err := e.resolve(ctx, []string{c.ID}, opts); err != nil {
			return "", err
		}
		if u, ok = e.urls.Get(key); !ok {
			return "", fmt.Errorf("no image URL returned for node %s", c.ID)
		}
	}

	body, err := e.client.Download(ctx, u)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", c.ID, err)
	}
	return strings.TrimSpace(string(body)), nil
}
