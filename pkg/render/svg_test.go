package render

import (
	"bytes"
	"strings"
	"testing"

	"plexus/pkg/common"
	"plexus/pkg/layout"
)

func testFrame() layout.Frame {
	return layout.Frame{
		Nodes: []layout.FrameNode{
			{ID: "ada", Label: "Ada Lovelace", Type: common.NodeTypePerson, X: 100, Y: 100, Radius: 60, LabelX: 100, LabelY: 176},
			{ID: "engine", Label: "", Type: common.NodeTypeConcept, X: 400, Y: 200, Radius: 60, Highlight: true, LabelX: 400, LabelY: 276},
		},
		Links: []layout.FrameLink{
			{X1: 100, Y1: 100, X2: 400, Y2: 200, Label: "designed", Width: 3},
		},
		Transform: layout.Viewport{TranslateX: 25, TranslateY: -10, Scale: 1.5},
	}
}

func TestSVGDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, testFrame(), DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"<svg",
		"</svg>",
		`translate(25,-10) scale(1.5)`,
		"stroke-width:3",
		"Ada Lovelace",
		"designed",
		// Unlabeled nodes fall back to their id.
		">engine<",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSVGTypeColors(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, testFrame(), DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, typeFill(common.NodeTypePerson)) {
		t.Fatal("person node not filled with its type color")
	}
	if !strings.Contains(out, typeFill(common.NodeTypeConcept)) {
		t.Fatal("concept node not filled with its type color")
	}
	if strings.Contains(out, typeFill(common.NodeTypeData)) {
		t.Fatal("unused type color appears in output")
	}
}

func TestSVGHighlightRing(t *testing.T) {
	f := testFrame()

	var buf bytes.Buffer
	if err := SVG(&buf, f, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), highlightRing) {
		t.Fatal("highlighted node rendered without ring")
	}

	f.Nodes[1].Highlight = false
	buf.Reset()
	if err := SVG(&buf, f, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), highlightRing) {
		t.Fatal("ring rendered with nothing highlighted")
	}
}

func TestSVGWithoutLabels(t *testing.T) {
	opts := DefaultOptions()
	opts.DrawLabels = false

	var buf bytes.Buffer
	if err := SVG(&buf, testFrame(), opts); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "Ada Lovelace") || strings.Contains(out, "designed") {
		t.Fatal("labels rendered with DrawLabels disabled")
	}
}

func TestSVGInvalidDimensions(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, testFrame(), Options{Width: 0, Height: 600}); err == nil {
		t.Fatal("expected error for zero width")
	}
}
