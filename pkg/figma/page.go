package figma

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kataras/figma-icon-export/pkg/design"
	"github.com/kataras/figma-icon-export/pkg/naming"
)

// ErrPageNotFound is returned when the file has no page matching the selector.
var ErrPageNotFound = errors.New("page not found")

const canvasType = "CANVAS"

// PageSelector chooses the page of a file to export. Name wins over NodeIDs;
// an empty selector picks the first page.
type PageSelector struct {
	Name string
	// NodeIDs restricts the page to the given nodes, e.g. the node-id of the
	// URL. A page ID selects the whole page.
	NodeIDs []string
}

// PageFromFile converts one page of a Figma file into the design tree the
// export walks. Hidden nodes are skipped. Variant properties are parsed from
// the "Key=Value, Key=Value" names Figma gives the variants of a set, and
// descriptions come from the file's component metadata.
func PageFromFile(file *FileResponse, sel PageSelector) (*design.Page, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: empty file", ErrPageNotFound)
	}

	var canvases []*Node
	for i := range file.Document.Children {
		if child := &file.Document.Children[i]; child.Type == canvasType {
			canvases = append(canvases, child)
		}
	}
	if len(canvases) == 0 {
		return nil, fmt.Errorf("%w: file %q has no pages", ErrPageNotFound, file.Name)
	}

	conv := converter{file: file}

	if name := strings.TrimSpace(sel.Name); name != "" {
		for _, canvas := range canvases {
			if strings.EqualFold(strings.TrimSpace(canvas.Name), name) {
				return conv.page(canvas, canvas.Children), nil
			}
		}
		return nil, fmt.Errorf("%w: no page named %q", ErrPageNotFound, name)
	}

	if len(sel.NodeIDs) > 0 {
		for _, canvas := range canvases {
			if containsID(sel.NodeIDs, canvas.ID) {
				return conv.page(canvas, canvas.Children), nil
			}
		}
		for _, canvas := range canvases {
			if nodes := findNodes(canvas.Children, sel.NodeIDs); len(nodes) > 0 {
				return conv.page(canvas, nodes), nil
			}
		}
		return nil, fmt.Errorf("%w: no page contains nodes %s", ErrPageNotFound, strings.Join(sel.NodeIDs, ", "))
	}

	return conv.page(canvases[0], canvases[0].Children), nil
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// findNodes returns the nodes whose ID is in ids, in tree order, without
// descending into a match.
func findNodes(nodes []Node, ids []string) []Node {
	var found []Node
	for _, n := range nodes {
		if containsID(ids, n.ID) {
			found = append(found, n)
			continue
		}
		found = append(found, findNodes(n.Children, ids)...)
	}
	return found
}

type converter struct {
	file *FileResponse
}

func (c converter) page(canvas *Node, children []Node) *design.Page {
	page := &design.Page{ID: canvas.ID, Name: canvas.Name}
	for i := range children {
		if n := c.node(&children[i], false); n != nil {
			page.Children = append(page.Children, n)
		}
	}
	page.Link()
	return page
}

func (c converter) node(n *Node, inSet bool) *design.Node {
	if !n.IsVisible() {
		return nil
	}

	out := &design.Node{ID: n.ID, Name: n.Name, Kind: design.ParseKind(n.Type)}
	switch out.Kind {
	case design.KindComponentSet:
		if meta, ok := c.file.ComponentSets[n.ID]; ok {
			out.Description = meta.Description
		}
	case design.KindComponent:
		comp := &design.Component{ID: n.ID, Name: n.Name}
		if meta, ok := c.file.Components[n.ID]; ok {
			comp.Description = meta.Description
			inSet = inSet || meta.ComponentSetID != ""
		}
		if inSet {
			comp.VariantProperties = naming.ParseVariantName(n.Name)
		}
		out.Component = comp
		// The vector content of a component is exported as a whole.
		return out
	case design.KindOther:
	}

	for i := range n.Children {
		if child := c.node(&n.Children[i], out.Kind == design.KindComponentSet); child != nil {
			out.Children = append(out.Children, child)
		}
	}
	return out
}
