package common

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		graph   GraphData
		wantErr bool
	}{
		{
			name: "Valid",
			graph: GraphData{
				Nodes: []Node{{ID: "a"}, {ID: "b"}},
				Links: []Link{{Source: NodeRef{ID: "a"}, Target: NodeRef{ID: "b"}, Strength: 5}},
			},
		},
		{
			name: "DuplicateNodeID",
			graph: GraphData{
				Nodes: []Node{{ID: "a"}, {ID: "a"}},
			},
			wantErr: true,
		},
		{
			name: "EmptyNodeID",
			graph: GraphData{
				Nodes: []Node{{Label: "no id"}},
			},
			wantErr: true,
		},
		{
			name: "StrengthTooLow",
			graph: GraphData{
				Nodes: []Node{{ID: "a"}, {ID: "b"}},
				Links: []Link{{Source: NodeRef{ID: "a"}, Target: NodeRef{ID: "b"}, Strength: 0}},
			},
			wantErr: true,
		},
		{
			name: "StrengthTooHigh",
			graph: GraphData{
				Nodes: []Node{{ID: "a"}, {ID: "b"}},
				Links: []Link{{Source: NodeRef{ID: "a"}, Target: NodeRef{ID: "b"}, Strength: 11}},
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.graph.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateDanglingLinkNamesID(t *testing.T) {
	graph := GraphData{
		Nodes: []Node{{ID: "a"}},
		Links: []Link{{Source: NodeRef{ID: "a"}, Target: NodeRef{ID: "ghost"}, Strength: 3}},
	}

	err := graph.Validate()
	if err == nil {
		t.Fatal("expected validation error for dangling link")
	}

	var dangling *DanglingLinkError
	if !errors.As(err, &dangling) {
		t.Fatalf("expected DanglingLinkError, got %T: %v", err, err)
	}
	if dangling.ID != "ghost" {
		t.Fatalf("error names id %q, want %q", dangling.ID, "ghost")
	}
}

func TestNodeRefUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantID   string
		resolved bool
	}{
		{"RawID", `"n1"`, "n1", false},
		{"NodeObject", `{"id":"n2","label":"Node Two","type":"person"}`, "n2", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ref NodeRef
			if err := json.Unmarshal([]byte(tc.in), &ref); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tc.in, err)
			}
			if ref.ID != tc.wantID {
				t.Fatalf("ID = %q, want %q", ref.ID, tc.wantID)
			}
			if (ref.Node != nil) != tc.resolved {
				t.Fatalf("resolved = %v, want %v", ref.Node != nil, tc.resolved)
			}
		})
	}
}

func TestParseNodeType(t *testing.T) {
	tests := []struct {
		in   string
		want NodeType
	}{
		{"person", NodeTypePerson},
		{"concept", NodeTypeConcept},
		{"data", NodeTypeData},
		{"method", NodeTypeMethod},
		{"organization", NodeTypeOrganization},
		{"unknown", NodeTypeUnknown},
		{"PLANET", NodeTypeUnknown},
		{"", NodeTypeUnknown},
	}

	for _, tc := range tests {
		if got := ParseNodeType(tc.in); got != tc.want {
			t.Fatalf("ParseNodeType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLinksTouching(t *testing.T) {
	graph := GraphData{
		Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Links: []Link{
			{Source: NodeRef{ID: "a"}, Target: NodeRef{ID: "b"}, Strength: 2},
			{Source: NodeRef{ID: "b"}, Target: NodeRef{ID: "c"}, Strength: 4},
			{Source: NodeRef{ID: "c"}, Target: NodeRef{ID: "a"}, Strength: 6},
		},
	}

	got := graph.LinksTouching("b")
	if len(got) != 2 {
		t.Fatalf("LinksTouching(b) returned %d links, want 2", len(got))
	}
	if got := graph.LinksTouching("missing"); len(got) != 0 {
		t.Fatalf("LinksTouching(missing) returned %d links, want 0", len(got))
	}
}
