package common

import (
	"encoding/json"
	"fmt"
	"math"
)

// NodeType classifies a node in an extracted document graph.
// Types are produced by the extraction model and fall back to
// NodeTypeUnknown for anything outside the known set.
type NodeType string

const (
	NodeTypePerson       NodeType = "person"
	NodeTypeConcept      NodeType = "concept"
	NodeTypeData         NodeType = "data"
	NodeTypeMethod       NodeType = "method"
	NodeTypeOrganization NodeType = "organization"
	NodeTypeUnknown      NodeType = "unknown"
)

// ParseNodeType maps a raw type string onto the node type enumeration.
// Unrecognized values map to NodeTypeUnknown.
func ParseNodeType(s string) NodeType {
	switch NodeType(s) {
	case NodeTypePerson, NodeTypeConcept, NodeTypeData, NodeTypeMethod, NodeTypeOrganization:
		return NodeType(s)
	default:
		return NodeTypeUnknown
	}
}

// Node represents a node in a document graph. It carries only the
// extracted data; positions and velocities live inside the layout
// engine, which receives nodes wholesale and owns all motion state.
type Node struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Type        NodeType `json:"type"`
	Description string   `json:"description"`
	Cluster     string   `json:"cluster,omitempty"`
}

// NodeRef identifies a link endpoint. It is ingested as either a bare
// node id or an already-resolved node; the layout engine resolves bare
// ids to nodes exactly once at construction.
type NodeRef struct {
	ID   string
	Node *Node
}

// UnmarshalJSON accepts either a plain id string or a node object
// carrying an "id" field.
func (r *NodeRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		r.Node = nil
		return nil
	}

	var node Node
	if err := json.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("link endpoint must be a node id or node object: %w", err)
	}
	r.ID = node.ID
	r.Node = &node
	return nil
}

// MarshalJSON emits the endpoint as its node id.
func (r NodeRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// Link represents an edge between two nodes. Strength is a score in
// [1,10] supplied by the extraction model; it affects rendered line
// weight only, not the spring force.
type Link struct {
	Source   NodeRef `json:"source"`
	Target   NodeRef `json:"target"`
	Label    string  `json:"label"`
	Strength float64 `json:"strength"`
}

// GraphData is a complete node/link graph handed to the layout engine
// in one piece. Node ids must be unique and every link endpoint must
// name a present node; Validate checks both.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// DanglingLinkError reports a link endpoint whose id does not resolve
// to any node in the graph.
type DanglingLinkError struct {
	ID string
}

func (e *DanglingLinkError) Error() string {
	return fmt.Sprintf("link references unknown node %q", e.ID)
}

// Validate checks the graph construction invariants: unique node ids,
// resolvable link endpoints, and strengths inside [1,10]. It returns
// the first violation found.
func (g *GraphData) Validate() error {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %q has an empty id", n.Label)
		}
		if _, ok := ids[n.ID]; ok {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = struct{}{}
	}

	for _, l := range g.Links {
		if _, ok := ids[l.Source.ID]; !ok {
			return &DanglingLinkError{ID: l.Source.ID}
		}
		if _, ok := ids[l.Target.ID]; !ok {
			return &DanglingLinkError{ID: l.Target.ID}
		}
		if math.IsNaN(l.Strength) || math.IsInf(l.Strength, 0) {
			return fmt.Errorf("link %s -> %s has a non-finite strength", l.Source.ID, l.Target.ID)
		}
		if l.Strength < 1 || l.Strength > 10 {
			return fmt.Errorf("link %s -> %s strength %v outside [1,10]", l.Source.ID, l.Target.ID, l.Strength)
		}
	}

	return nil
}

// LinksTouching returns all links with the given node id as either
// endpoint. The detail panel uses this to show a node's connections.
func (g *GraphData) LinksTouching(nodeID string) []Link {
	out := make([]Link, 0)
	for _, l := range g.Links {
		if l.Source.ID == nodeID || l.Target.ID == nodeID {
			out = append(out, l)
		}
	}
	return out
}
