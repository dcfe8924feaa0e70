package exporter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-icon-export/pkg/design"
	"github.com/kataras/figma-icon-export/pkg/icon"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

type recorder struct {
	mu      sync.Mutex
	events  []Event
	notices []string
	errs    []bool
}

func (r *recorder) Report(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) Notify(msg string, isError bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, msg)
	r.errs = append(r.errs, isError)
}

func (r *recorder) ofType(typ EventType) []Event {
	var out []Event
	for _, ev := range r.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func svg(d string) string {
	return `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24" fill="none">
  <path d="` + d + `" fill="currentColor"/>
</svg>`
}

func variantNode(id, name string, props map[string]string, markup string) *design.Node {
	return &design.Node{
		ID: id, Name: name, Kind: design.KindComponent,
		Component: &design.Component{VariantProperties: props, SVG: markup},
	}
}

func setNode(id, name string, children ...*design.Node) *design.Node {
	return &design.Node{ID: id, Name: name, Kind: design.KindComponentSet, Children: children}
}

func newPage(children ...*design.Node) *design.Page {
	p := &design.Page{ID: "0:1", Name: "Icons", Children: children}
	p.Link()
	return p
}

func newPipeline(rec *recorder, opts Options) *Pipeline {
	opts.Reporter = rec
	opts.Notifier = rec
	opts.Clock = func() time.Time { return fixedTime }
	return New(opts)
}

func TestRunHeart(t *testing.T) {
	page := newPage(setNode("1:1", "heart",
		variantNode("1:2", "Weight=Bold, Duotone=true", map[string]string{"Weight": "Bold", "Duotone": "true"},
			`<svg viewBox="0 0 24 24"><path opacity="0.2" d="M1 1"/><path d="M2 2"/></svg>`),
		variantNode("1:3", "Weight=Regular, Duotone=false", map[string]string{"Weight": "Regular", "Duotone": "false"},
			svg("M3 3")),
	))

	rec := &recorder{}
	res, err := newPipeline(rec, Options{}).Run(context.Background(), page)
	require.NoError(t, err)
	require.NotNil(t, res.Document)

	doc := res.Document
	assert.Equal(t, "2.0.0", doc.SchemaVersion)
	assert.Equal(t, fixedTime, doc.ExportedAt)
	require.Equal(t, 1, doc.TotalIcons)
	require.Len(t, doc.Icons, 1)

	heart := doc.Icons[0]
	assert.Equal(t, "heart", heart.Name)
	assert.Equal(t, []string{"heart"}, heart.Tags)
	require.Len(t, heart.Variants, 2)
	assert.Equal(t, icon.WeightVariant(icon.WeightRegular, false), heart.Variants[0].Variant)
	assert.Equal(t, icon.WeightVariant(icon.WeightBold, true), heart.Variants[1].Variant)
	for _, v := range heart.Variants {
		assert.NotEmpty(t, v.Hash)
		assert.Len(t, v.Hash, 8)
		assert.True(t, strings.HasPrefix(v.SVG, "<svg"))
		assert.Contains(t, v.SVG, `viewBox="0 0 24 24"`)
		assert.NotContains(t, v.SVG, "\n")
	}

	assert.Equal(t, []State{
		StateScanning, StateDuplicateCheck, StateProcessingSets,
		StateProcessingIndividuals, StateAssembling, StateDone,
	}, res.States)

	saves := rec.ofType(EventSave)
	require.Len(t, saves, 1)
	assert.Equal(t, Filename, saves[0].Filename)
	assert.Equal(t, string(res.Content), saves[0].Content)
	assert.Contains(t, saves[0].Content, `<svg`, "HTML escaping must be disabled")

	decoded, err := icon.Decode([]byte(saves[0].Content))
	require.NoError(t, err)
	assert.Equal(t, doc.Icons, decoded.Icons)

	assert.Len(t, rec.ofType(EventSuccess), 1)
	assert.Empty(t, rec.ofType(EventError))
	assert.Empty(t, rec.notices)
}

// savingRecorder persists the save event and fails with err.
type savingRecorder struct {
	recorder
	err   error
	saved []Event
}

func (s *savingRecorder) ReportSave(_ context.Context, ev Event) error {
	s.saved = append(s.saved, ev)
	s.Report(ev)
	return s.err
}

func TestRunSuccessFollowsSave(t *testing.T) {
	page := newPage(setNode("1:1", "heart",
		variantNode("1:2", "Weight=Regular", map[string]string{"Weight": "Regular"}, svg("M1"))))

	tests := []struct {
		name        string
		saveErr     error
		wantSuccess int
		wantErrors  int
	}{
		{"saved", nil, 1, 0},
		{"save failed", errors.New("disk full"), 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &savingRecorder{err: tt.saveErr}
			res, err := New(Options{Reporter: rec, Clock: func() time.Time { return fixedTime }}).Run(context.Background(), page)
			if tt.saveErr != nil {
				require.ErrorIs(t, err, tt.saveErr)
			} else {
				require.NoError(t, err)
			}

			require.Len(t, rec.saved, 1)
			assert.Equal(t, string(res.Content), rec.saved[0].Content)
			assert.Len(t, rec.ofType(EventSuccess), tt.wantSuccess)
			assert.Len(t, rec.ofType(EventError), tt.wantErrors)
		})
	}
}

func TestRunStarAbort(t *testing.T) {
	page := newPage(
		setNode("1:1", "star", variantNode("1:2", "Weight=Regular", map[string]string{"Weight": "Regular"}, svg("M1"))),
		setNode("2:1", "star", variantNode("2:2", "Weight=Bold", map[string]string{"Weight": "Bold"}, svg("M2"))),
	)

	var exported int
	exporter := design.ExporterFunc(func(context.Context, *design.Component, design.ExportSettings) (string, error) {
		exported++
		return svg("M0"), nil
	})

	rec := &recorder{}
	res, err := newPipeline(rec, Options{Exporter: exporter}).Run(context.Background(), page)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateNames))

	var dupErr *DuplicateNamesError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, []string{"star"}, dupErr.Names)

	assert.Nil(t, res.Document)
	assert.Equal(t, StateAborted, res.States[len(res.States)-1])
	assert.Zero(t, exported, "no variant may be exported after an abort")

	assert.Empty(t, rec.ofType(EventSave))
	require.Len(t, rec.notices, 1)
	assert.Contains(t, rec.notices[0], "star")
	assert.True(t, rec.errs[0])
}

func TestRunSetAndStandaloneCollision(t *testing.T) {
	page := newPage(
		setNode("1:1", "arrow-left", variantNode("1:2", "Weight=Regular", map[string]string{"Weight": "Regular"}, svg("M1"))),
		&design.Node{ID: "2:1", Name: "Frame", Kind: design.KindOther, Children: []*design.Node{
			variantNode("2:2", "arrow-left/bold", nil, svg("M2")),
		}},
	)

	rec := &recorder{}
	_, err := newPipeline(rec, Options{}).Run(context.Background(), page)
	require.ErrorIs(t, err, ErrDuplicateNames)
	assert.Empty(t, rec.ofType(EventSave))
	require.Len(t, rec.notices, 1)
	assert.Contains(t, rec.notices[0], "arrow-left")
}

func TestRunFatalInputs(t *testing.T) {
	tests := []struct {
		name string
		page *design.Page
		want error
	}{
		{"nil page", nil, ErrNoPage},
		{"empty page", newPage(), ErrNoComponents},
		{"containers only", newPage(&design.Node{Kind: design.KindOther, Name: "Frame"}), ErrNoComponents},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			_, err := newPipeline(rec, Options{}).Run(context.Background(), tt.page)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, rec.ofType(EventSave))
			assert.Len(t, rec.ofType(EventError), 1)
		})
	}
}

func TestRunSkipsFailingGroups(t *testing.T) {
	page := newPage(
		setNode("1:1", "broken", variantNode("1:2", "Weight=Regular", map[string]string{"Weight": "Regular"}, "")),
		setNode("2:1", "zap", variantNode("2:2", "Weight=Regular", map[string]string{"Weight": "Regular"}, svg("M2"))),
		variantNode("3:1", "panics/regular", nil, "panic"),
		variantNode("4:1", "bell/bold", nil, svg("M4")),
		variantNode("4:2", "bell/regular", nil, svg("M5")),
	)

	exporter := design.ExporterFunc(func(_ context.Context, c *design.Component, _ design.ExportSettings) (string, error) {
		if c.SVG == "panic" {
			panic("host exploded")
		}
		return c.SVG, nil
	})

	rec := &recorder{}
	res, err := newPipeline(rec, Options{Exporter: exporter}).Run(context.Background(), page)
	require.NoError(t, err)

	var names []string
	for _, ic := range res.Document.Icons {
		names = append(names, ic.Name)
	}
	assert.Equal(t, []string{"bell", "zap"}, names)
	assert.Equal(t, 2, res.Document.TotalIcons)
	assert.ElementsMatch(t, []string{"broken", "panics"}, res.FailedGroups)
	assert.Equal(t, 3, res.Variants)
	assert.Equal(t, uint64(2), res.Stats.Dropped)

	bell := res.Document.Icons[0]
	require.Len(t, bell.Variants, 2)
	assert.Equal(t, icon.WeightRegular, bell.Variants[0].Variant.Weight)
	assert.Equal(t, icon.WeightBold, bell.Variants[1].Variant.Weight)

	assert.Len(t, rec.ofType(EventProgress), 4)
	assert.Len(t, rec.ofType(EventSave), 1)
}

func TestRunYieldsEveryFewGroups(t *testing.T) {
	var children []*design.Node
	for i := 0; i < 12; i++ {
		children = append(children, variantNode(fmt.Sprintf("%d:1", i), fmt.Sprintf("icon%02d/regular", i), nil, svg(fmt.Sprintf("M%d", i))))
	}

	var yields int
	rec := &recorder{}
	p := newPipeline(rec, Options{
		Workers: 1,
		Yield:   func(context.Context) { yields++ },
	})
	res, err := p.Run(context.Background(), newPage(children...))
	require.NoError(t, err)
	assert.Equal(t, 12, res.Document.TotalIcons)
	// 12 single-variant groups: 2 group yields, no variant yields.
	assert.Equal(t, 2, yields)
}

func TestRunIsDeterministic(t *testing.T) {
	build := func() *design.Page {
		return newPage(
			setNode("1:1", "heart",
				variantNode("1:2", "Weight=Bold, Duotone=false", map[string]string{"Weight": "Bold", "Duotone": "false"}, svg("M1")),
				variantNode("1:3", "Weight=Regular, Duotone=false", map[string]string{"Weight": "Regular", "Duotone": "false"}, svg("M2")),
			),
			variantNode("2:1", "Bell Ring - Fill", nil, svg("M3")),
		)
	}

	first, err := newPipeline(&recorder{}, Options{Workers: 3}).Run(context.Background(), build())
	require.NoError(t, err)
	second, err := newPipeline(&recorder{}, Options{Workers: 1}).Run(context.Background(), build())
	require.NoError(t, err)
	assert.Equal(t, string(first.Content), string(second.Content))
}

func TestDuplicateNames(t *testing.T) {
	tests := []struct {
		name   string
		groups [][]icon.Group
		want   []string
	}{
		{"unique", [][]icon.Group{{{BaseName: "a"}, {BaseName: "b"}}}, nil},
		{"within sets", [][]icon.Group{{{BaseName: "star"}, {BaseName: "star"}}, nil}, []string{"star"}},
		{"across kinds", [][]icon.Group{{{BaseName: "arrow-left"}}, {{BaseName: "arrow-left"}}}, []string{"arrow-left"}},
		{"same kebab name", [][]icon.Group{{{BaseName: "Arrow Left"}}, {{BaseName: "arrowLeft"}}}, []string{"Arrow Left"}},
		{"first seen order", [][]icon.Group{{{BaseName: "b"}, {BaseName: "a"}}, {{BaseName: "a"}, {BaseName: "b"}}}, []string{"b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DuplicateNames(tt.groups...))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ProcessingIndividuals", StateProcessingIndividuals.String())
	assert.Equal(t, "Aborted", StateAborted.String())
	assert.Equal(t, "State(42)", State(42).String())
}
