package extractor

import (
	"github.com/kataras/figma-icon-export/pkg/design"
	"github.com/kataras/figma-icon-export/pkg/icon"
	"github.com/kataras/figma-icon-export/pkg/naming"
)

// Inventory is everything exportable found on a page, in discovery order.
type Inventory struct {
	// Sets are the component sets of the page.
	Sets []*design.Node
	// Standalone are the components that do not belong to any component set.
	Standalone []*design.Component
}

// Scan walks the page tree depth-first and collects every component set and
// every standalone component, regardless of nesting depth.
func Scan(page *design.Page) *Inventory {
	inv := &Inventory{}
	if page == nil {
		return inv
	}
	for _, child := range page.Children {
		scanNode(child, inv)
	}
	return inv
}

// scanNode recursively traverses the tree. Component sets claim their direct
// component children; components are leaves as far as the export goes.
func scanNode(node *design.Node, inv *Inventory) {
	if node == nil {
		return
	}

	switch node.Kind {
	case design.KindComponentSet:
		inv.Sets = append(inv.Sets, node)
		// Sets may contain non-component helpers (e.g. documentation frames).
		for _, child := range node.Children {
			if child.Kind != design.KindComponent {
				scanNode(child, inv)
			}
		}
	case design.KindComponent:
		if node.Component != nil && node.Component.Set() == nil {
			inv.Standalone = append(inv.Standalone, node.Component)
		}
	case design.KindOther:
		for _, child := range node.Children {
			scanNode(child, inv)
		}
	}
}

// Empty reports whether the page had nothing to export.
func (inv *Inventory) Empty() bool {
	return len(inv.Sets) == 0 && len(inv.Standalone) == 0
}

// ComponentCount returns the number of components across sets and standalone.
func (inv *Inventory) ComponentCount() int {
	n := len(inv.Standalone)
	for _, set := range inv.Sets {
		n += len(setComponents(set))
	}
	return n
}

// Components returns every component of the inventory, set members first.
func (inv *Inventory) Components() []*design.Component {
	components := make([]*design.Component, 0, inv.ComponentCount())
	for _, set := range inv.Sets {
		components = append(components, setComponents(set)...)
	}
	return append(components, inv.Standalone...)
}

// SetGroups returns one group per component set, named after the set.
func (inv *Inventory) SetGroups() []icon.Group {
	groups := make([]icon.Group, 0, len(inv.Sets))
	for _, set := range inv.Sets {
		groups = append(groups, icon.Group{
			BaseName:   set.Name,
			Components: setComponents(set),
			FromSet:    true,
		})
	}
	return groups
}

// StandaloneGroups groups standalone components by derived base name, in
// first-seen order.
func (inv *Inventory) StandaloneGroups() []icon.Group {
	index := make(map[string]int)
	var groups []icon.Group
	for _, c := range inv.Standalone {
		base := naming.BaseName(c.Name)
		i, ok := index[base]
		if !ok {
			i = len(groups)
			index[base] = i
			groups = append(groups, icon.Group{BaseName: base})
		}
		groups[i].Components = append(groups[i].Components, c)
	}
	return groups
}

func setComponents(set *design.Node) []*design.Component {
	var components []*design.Component
	for _, child := range set.Children {
		if child.Kind == design.KindComponent && child.Component != nil {
			components = append(components, child.Component)
		}
	}
	return components
}
