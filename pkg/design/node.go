// Package design models the read-only slice of the design tool's object model
// that the icon export needs: pages, component sets, components and the
// capability to export a component as SVG markup.
package design

import (
	"context"
	"sort"
	"strings"
)

// NodeKind is the closed set of node kinds the export pipeline distinguishes.
// Everything that is neither a component nor a component set is a plain
// container that may only carry children.
type NodeKind int

const (
	KindOther NodeKind = iota
	KindComponent
	KindComponentSet
)

// String returns the Figma type tag of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindComponent:
		return "COMPONENT"
	case KindComponentSet:
		return "COMPONENT_SET"
	default:
		return "OTHER"
	}
}

// ParseKind maps a Figma node type tag (e.g. "COMPONENT_SET") to a NodeKind.
// Unknown tags map to KindOther.
func ParseKind(typ string) NodeKind {
	switch strings.ToUpper(strings.TrimSpace(typ)) {
	case "COMPONENT":
		return KindComponent
	case "COMPONENT_SET":
		return KindComponentSet
	default:
		return KindOther
	}
}

// Page is the root of the tree the export walks.
type Page struct {
	ID       string
	Name     string
	Children []*Node
}

// Node is a single element of the page tree.
type Node struct {
	ID   string
	Name string
	Kind NodeKind

	// Description and DescriptionMarkdown are set on component sets.
	Description         string
	DescriptionMarkdown string

	// Component is non-nil when Kind is KindComponent.
	Component *Component

	Parent   *Node
	Children []*Node
}

// Component is a single exportable rendering of an icon variant.
type Component struct {
	ID                  string
	Name                string
	Description         string
	DescriptionMarkdown string

	// VariantProperties holds the structured variant metadata, e.g.
	// {"Weight": "Bold", "Duotone": "true"}. Lookups through Property are
	// case-insensitive.
	VariantProperties map[string]string

	// Parent is the node that contains the component, possibly a component set.
	Parent *Node

	// SVG carries inline markup for offline sources. Live sources leave it empty
	// and export through an Exporter.
	SVG string
}

// Property returns the variant property named key, compared case-insensitively.
// An exact match wins; among keys differing only by case the smallest one does.
func (c *Component) Property(key string) (string, bool) {
	if c == nil || len(c.VariantProperties) == 0 {
		return "", false
	}
	if v, ok := c.VariantProperties[key]; ok {
		return v, true
	}
	keys := make([]string, 0, len(c.VariantProperties))
	for k := range c.VariantProperties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return c.VariantProperties[k], true
		}
	}
	return "", false
}

// HasVariantProperties reports whether the component carries any structured
// variant metadata.
func (c *Component) HasVariantProperties() bool {
	return c != nil && len(c.VariantProperties) > 0
}

// Set returns the component set the component belongs to, or nil.
func (c *Component) Set() *Node {
	if c == nil || c.Parent == nil || c.Parent.Kind != KindComponentSet {
		return nil
	}
	return c.Parent
}

// Link sets the Parent pointers of every node and component below the page.
// Sources call it once after building the tree.
func (p *Page) Link() {
	for _, child := range p.Children {
		link(child, nil)
	}
}

func link(n *Node, parent *Node) {
	n.Parent = parent
	if n.Kind == KindComponent && n.Component != nil {
		n.Component.Parent = parent
		if n.Component.ID == "" {
			n.Component.ID = n.ID
		}
		if n.Component.Name == "" {
			n.Component.Name = n.Name
		}
	}
	for _, child := range n.Children {
		link(child, n)
	}
}

// SVG export settings, mirroring the host's export call.
const FormatSVGString = "SVG_STRING"

// ExportSettings selects the export format and markup options.
type ExportSettings struct {
	Format         string
	OutlineText    bool
	OmitIDs        bool
	SimplifyStroke bool
}

// DefaultExportSettings are the settings the icon export always uses.
var DefaultExportSettings = ExportSettings{
	Format:         FormatSVGString,
	OutlineText:    true,
	OmitIDs:        true,
	SimplifyStroke: true,
}

// Exporter produces raw SVG markup for a component.
type Exporter interface {
	ExportSVG(ctx context.Context, c *Component, settings ExportSettings) (string, error)
}

// ExporterFunc adapts a function to the Exporter interface.
type ExporterFunc func(ctx context.Context, c *Component, settings ExportSettings) (string, error)

// ExportSVG calls f.
func (f ExporterFunc) ExportSVG(ctx context.Context, c *Component, settings ExportSettings) (string, error) {
	return f(ctx, c, settings)
}

// InlineExporter returns the markup stored on the component itself.
type InlineExporter struct{}

// ExportSVG returns c.SVG.
func (InlineExporter) ExportSVG(_ context.Context, c *Component, _ ExportSettings) (string, error) {
	if c == nil {
		return "", nil
	}
	return c.SVG, nil
}

// Prefetcher is implemented by exporters that can resolve many components in
// one round trip. Callers invoke it before the per-component ExportSVG calls;
// a failed prefetch only means ExportSVG does the work itself.
type Prefetcher interface {
	Prefetch(ctx context.Context, components []*Component, settings ExportSettings) error
}
