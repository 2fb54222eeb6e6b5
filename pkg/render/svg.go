// Package render turns layout frames into SVG documents. It draws from
// frame primitives only, so a frame captured from a live engine and a
// frame rebuilt from a stored snapshot render identically.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo/float"

	"plexus/pkg/common"
	"plexus/pkg/layout"
)

const (
	backgroundFill = "#1e1e2e"
	linkStroke     = "#6b80bf"
	linkLabelFill  = "#a0a0b0"
	labelFill      = "#f8f8f2"
	highlightRing  = "#f1fa8c"
	nodeStroke     = "#151520"
)

// typeFill maps a node type to its circle color. Unknown types share
// the fallback gray so an unexpected value still renders.
func typeFill(t common.NodeType) string {
	switch t {
	case common.NodeTypePerson:
		return "#50fa7b"
	case common.NodeTypeConcept:
		return "#8be9fd"
	case common.NodeTypeData:
		return "#ffb86c"
	case common.NodeTypeMethod:
		return "#bd93f9"
	case common.NodeTypeOrganization:
		return "#ff79c6"
	default:
		return "#6272a4"
	}
}

// Options control the document dimensions and which decorations are
// drawn.
type Options struct {
	Width  float64
	Height float64

	// DrawLabels toggles node and link captions. Dense graphs are
	// exported without them.
	DrawLabels bool
}

// DefaultOptions matches the engine's default world size.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, DrawLabels: true}
}

// SVG writes f as a standalone SVG document. The frame's viewport
// becomes a single group transform, so the export shows exactly what
// an interactive session showed at capture time.
func SVG(w io.Writer, f layout.Frame, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("render: invalid dimensions %vx%v", opts.Width, opts.Height)
	}

	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:"+backgroundFill)

	canvas.Gtransform(fmt.Sprintf("translate(%g,%g) scale(%g)",
		f.Transform.TranslateX, f.Transform.TranslateY, f.Transform.Scale))

	// Links go under the nodes.
	for _, l := range f.Links {
		canvas.Line(l.X1, l.Y1, l.X2, l.Y2,
			fmt.Sprintf("stroke:%s;stroke-width:%g;stroke-opacity:0.6", linkStroke, l.Width))
		if opts.DrawLabels && l.Label != "" {
			canvas.Text((l.X1+l.X2)/2, (l.Y1+l.Y2)/2, l.Label,
				"fill:"+linkLabelFill+";font-size:11px;text-anchor:middle")
		}
	}

	for _, n := range f.Nodes {
		if n.Highlight {
			canvas.Circle(n.X, n.Y, n.Radius+4,
				fmt.Sprintf("fill:none;stroke:%s;stroke-width:3", highlightRing))
		}
		canvas.Circle(n.X, n.Y, n.Radius,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.5", typeFill(n.Type), nodeStroke))
	}

	if opts.DrawLabels {
		for _, n := range f.Nodes {
			label := n.Label
			if label == "" {
				label = n.ID
			}
			canvas.Text(n.LabelX, n.LabelY, label,
				"fill:"+labelFill+";font-size:13px;text-anchor:middle")
		}
	}

	canvas.Gend()
	canvas.End()
	return nil
}
