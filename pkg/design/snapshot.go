package design

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// SnapshotNode is the on-disk form of a page tree node. It matches what a
// plugin-side dump of the current page produces.
type SnapshotNode struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Type                string            `json:"type"`
	Description         string            `json:"description,omitempty"`
	DescriptionMarkdown string            `json:"descriptionMarkdown,omitempty"`
	VariantProperties   map[string]string `json:"variantProperties,omitempty"`
	SVG                 string            `json:"svg,omitempty"`
	Children            []SnapshotNode    `json:"children,omitempty"`
}

// Snapshot is an offline dump of a single page.
type Snapshot struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Children []SnapshotNode `json:"children"`
}

// LoadSnapshot reads a page snapshot from a JSON file.
func LoadSnapshot(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	return ReadSnapshot(f)
}

// ReadSnapshot decodes a page snapshot and builds the linked page tree.
func ReadSnapshot(r io.Reader) (*Page, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	page := &Page{ID: snap.ID, Name: snap.Name}
	for i := range snap.Children {
		page.Children = append(page.Children, snapshotToNode(&snap.Children[i]))
	}
	page.Link()
	return page, nil
}

func snapshotToNode(s *SnapshotNode) *Node {
	n := &Node{
		ID:   s.ID,
		Name: s.Name,
		Kind: ParseKind(s.Type),
	}

	switch n.Kind {
	case KindComponent:
		n.Component = &Component{
			ID:                  s.ID,
			Name:                s.Name,
			Description:         s.Description,
			DescriptionMarkdown: s.DescriptionMarkdown,
			VariantProperties:   s.VariantProperties,
			SVG:                 s.SVG,
		}
	case KindComponentSet:
		n.Description = s.Description
		n.DescriptionMarkdown = s.DescriptionMarkdown
	case KindOther:
	}

	for i := range s.Children {
		n.Children = append(n.Children, snapshotToNode(&s.Children[i]))
	}
	return n
}
