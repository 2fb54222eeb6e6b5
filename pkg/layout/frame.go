package layout

import "plexus/pkg/common"

// labelOffsetY places a node's label a fixed distance under its circle.
const labelOffsetY = 16

// FrameNode is a drawable node primitive.
type FrameNode struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	Type      common.NodeType `json:"type"`
	Cluster   string          `json:"cluster,omitempty"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Radius    float64         `json:"radius"`
	Highlight bool            `json:"highlight"`
	LabelX    float64         `json:"label_x"`
	LabelY    float64         `json:"label_y"`
}

// FrameLink is a drawable link primitive. Width derives from the link
// strength; endpoints are the current source and target coordinates.
type FrameLink struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Label string  `json:"label"`
	Width float64 `json:"width"`
}

// Frame is a read-only snapshot of everything a renderer needs for one
// drawn frame. It copies positions out of the engine, so holding onto
// a Frame across ticks is safe.
type Frame struct {
	Nodes     []FrameNode `json:"nodes"`
	Links     []FrameLink `json:"links"`
	Transform Viewport    `json:"transform"`
	Alpha     float64     `json:"alpha"`
	Tick      int         `json:"tick"`
}

// Frame builds the current snapshot. selectedID marks the externally
// selected node; passing a different selection only flips highlight
// flags, it never resimulates.
func (e *Engine) Frame(selectedID string) Frame {
	f := Frame{
		Nodes:     make([]FrameNode, len(e.nodes)),
		Links:     make([]FrameLink, len(e.links)),
		Transform: *e.viewport,
		Alpha:     e.alpha,
		Tick:      e.ticks,
	}

	for i := range e.nodes {
		node := &e.graph.Nodes[i]
		f.Nodes[i] = FrameNode{
			ID:        node.ID,
			Label:     node.Label,
			Type:      node.Type,
			Cluster:   node.Cluster,
			X:         e.nodes[i].x,
			Y:         e.nodes[i].y,
			Radius:    e.cfg.NodeRadius,
			Highlight: node.ID == selectedID,
			LabelX:    e.nodes[i].x,
			LabelY:    e.nodes[i].y + e.cfg.NodeRadius + labelOffsetY,
		}
	}

	for i, l := range e.links {
		width := l.strength / 2
		if width < 1 {
			width = 1
		}
		f.Links[i] = FrameLink{
			X1:    e.nodes[l.source].x,
			Y1:    e.nodes[l.source].y,
			X2:    e.nodes[l.target].x,
			Y2:    e.nodes[l.target].y,
			Label: l.label,
			Width: width,
		}
	}

	return f
}
