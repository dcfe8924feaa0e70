package extractor

import (
	"reflect"
	"testing"

	"github.com/kataras/figma-icon-export/pkg/design"
)

func component(id, name string) *design.Node {
	return &design.Node{ID: id, Name: name, Kind: design.KindComponent, Component: &design.Component{}}
}

func testPage() *design.Page {
	page := &design.Page{
		ID:   "0:1",
		Name: "Icons",
		Children: []*design.Node{
			{
				ID: "1:1", Name: "Frame", Kind: design.KindOther,
				Children: []*design.Node{
					{
						ID: "1:2", Name: "heart", Kind: design.KindComponentSet,
						Children: []*design.Node{
							component("1:3", "Weight=Regular, Duotone=false"),
							component("1:4", "Weight=Bold, Duotone=true"),
							{ID: "1:5", Name: "Notes", Kind: design.KindOther, Children: []*design.Node{
								component("1:6", "note/regular"),
							}},
						},
					},
					{
						ID: "2:1", Name: "Nested", Kind: design.KindOther,
						Children: []*design.Node{
							component("2:2", "bell/regular"),
							component("2:3", "arrow - bold"),
						},
					},
				},
			},
			component("3:1", "bell/bold"),
			{ID: "3:2", Name: "empty", Kind: design.KindComponent},
		},
	}
	page.Link()
	return page
}

func TestScan(t *testing.T) {
	inv := Scan(testPage())

	if len(inv.Sets) != 1 || inv.Sets[0].Name != "heart" {
		t.Fatalf("Sets = %v", inv.Sets)
	}

	var standalone []string
	for _, c := range inv.Standalone {
		standalone = append(standalone, c.ID)
	}
	if want := []string{"1:6", "2:2", "2:3", "3:1"}; !reflect.DeepEqual(standalone, want) {
		t.Errorf("Standalone = %v, want %v", standalone, want)
	}

	if got := inv.ComponentCount(); got != 6 {
		t.Errorf("ComponentCount() = %d, want 6", got)
	}
}

func TestScanEmpty(t *testing.T) {
	tests := []struct {
		name string
		page *design.Page
	}{
		{"nil page", nil},
		{"no children", &design.Page{}},
		{"containers only", &design.Page{Children: []*design.Node{{Kind: design.KindOther, Children: []*design.Node{{Kind: design.KindOther}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if inv := Scan(tt.page); !inv.Empty() {
				t.Errorf("expected empty inventory, got %+v", inv)
			}
		})
	}
}

func TestGroups(t *testing.T) {
	inv := Scan(testPage())

	sets := inv.SetGroups()
	if len(sets) != 1 {
		t.Fatalf("SetGroups() = %d groups", len(sets))
	}
	if !sets[0].FromSet || sets[0].BaseName != "heart" || len(sets[0].Components) != 2 {
		t.Errorf("set group = %+v", sets[0])
	}
	if sets[0].Components[0].ID != "1:3" || sets[0].Components[1].ID != "1:4" {
		t.Errorf("set group components out of order")
	}

	groups := inv.StandaloneGroups()
	var names []string
	sizes := map[string]int{}
	for _, g := range groups {
		names = append(names, g.BaseName)
		sizes[g.BaseName] = len(g.Components)
		if g.FromSet {
			t.Errorf("standalone group %q marked FromSet", g.BaseName)
		}
	}
	if want := []string{"note", "bell", "arrow"}; !reflect.DeepEqual(names, want) {
		t.Errorf("StandaloneGroups() names = %v, want %v", names, want)
	}
	if sizes["bell"] != 2 {
		t.Errorf("bell group has %d components, want 2", sizes["bell"])
	}
}
