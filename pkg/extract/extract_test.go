package extract

import (
	"context"
	"math"
	"strings"
	"testing"

	"plexus/pkg/ai"
	"plexus/pkg/common"
)

// fakeClient scripts model responses for pipeline tests.
type fakeClient struct {
	completions []string
	responses   []extractResponse
	embeddings  map[string][]float32

	completionCalls int
	formatCalls     int
}

func (f *fakeClient) GenerateCompletion(_ context.Context, _ string, _ ...ai.GenerateOption) (string, error) {
	resp := f.completions[f.completionCalls%len(f.completions)]
	f.completionCalls++
	return resp, nil
}

func (f *fakeClient) GenerateCompletionWithFormat(_ context.Context, _, _, _ string, out any, _ ...ai.GenerateOption) error {
	resp := f.responses[f.formatCalls%len(f.responses)]
	f.formatCalls++
	*out.(*extractResponse) = resp
	return nil
}

func (f *fakeClient) GenerateEmbedding(_ context.Context, input []byte) ([]float32, error) {
	key := strings.SplitN(string(input), "\n", 2)[0]
	if vec, ok := f.embeddings[key]; ok {
		return vec, nil
	}
	return []float32{0, 0, 1}, nil
}

func (f *fakeClient) ResetMetrics()               {}
func (f *fakeClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func nodeByLabel(g *common.GraphData, label string) *common.Node {
	for i := range g.Nodes {
		if g.Nodes[i].Label == label {
			return &g.Nodes[i]
		}
	}
	return nil
}

func TestMergeResultsDeduplicatesByName(t *testing.T) {
	results := []extractResponse{
		{Nodes: []extractNode{
			{Name: "Ada Lovelace", Type: "person", Description: "first programmer"},
		}},
		{Nodes: []extractNode{
			{Name: "ada  lovelace", Type: "person", Description: "different wording"},
			{Name: "Analytical Engine", Type: "method"},
		}},
	}

	graph, err := mergeResults(results)
	if err != nil {
		t.Fatal(err)
	}

	if len(graph.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2: %+v", len(graph.Nodes), graph.Nodes)
	}
	ada := nodeByLabel(graph, "Ada Lovelace")
	if ada == nil {
		t.Fatal("merged node should keep the first spelling")
	}
	if ada.Description != "first programmer" {
		t.Fatalf("first description should win, got %q", ada.Description)
	}
}

func TestMergeResultsTypeMapping(t *testing.T) {
	results := []extractResponse{
		{Nodes: []extractNode{
			{Name: "a", Type: "PERSON"},
			{Name: "b", Type: "Organization"},
			{Name: "c", Type: "building"},
		}},
	}

	graph, err := mergeResults(results)
	if err != nil {
		t.Fatal(err)
	}

	wants := map[string]common.NodeType{
		"a": common.NodeTypePerson,
		"b": common.NodeTypeOrganization,
		"c": common.NodeTypeUnknown,
	}
	for label, want := range wants {
		n := nodeByLabel(graph, label)
		if n == nil || n.Type != want {
			t.Fatalf("node %q type = %v, want %v", label, n, want)
		}
	}
}

func TestMergeResultsClampsStrength(t *testing.T) {
	results := []extractResponse{
		{
			Nodes: []extractNode{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}},
			Links: []extractLink{
				{Source: "a", Target: "b", Strength: 25},
				{Source: "b", Target: "c", Strength: -3},
				{Source: "c", Target: "d", Strength: math.NaN()},
			},
		},
	}

	graph, err := mergeResults(results)
	if err != nil {
		t.Fatal(err)
	}
	if err := graph.Validate(); err != nil {
		t.Fatalf("merged graph must validate: %v", err)
	}

	wants := []float64{10, 1, 1}
	for i, want := range wants {
		if graph.Links[i].Strength != want {
			t.Fatalf("link %d strength %v, want %v", i, graph.Links[i].Strength, want)
		}
	}
}

func TestMergeResultsDropsDanglingAndSelfLinks(t *testing.T) {
	results := []extractResponse{
		{
			Nodes: []extractNode{{Name: "a"}, {Name: "b"}},
			Links: []extractLink{
				{Source: "a", Target: "b", Strength: 5},
				{Source: "a", Target: "ghost", Strength: 5},
				{Source: "ghost", Target: "b", Strength: 5},
				{Source: "a", Target: "a", Strength: 5},
			},
		},
	}

	graph, err := mergeResults(results)
	if err != nil {
		t.Fatal(err)
	}
	if len(graph.Links) != 1 {
		t.Fatalf("got %d links, want only a-b: %+v", len(graph.Links), graph.Links)
	}
	if err := graph.Validate(); err != nil {
		t.Fatalf("merged graph must validate: %v", err)
	}
}

func TestMergeResultsDuplicatePairKeepsStronger(t *testing.T) {
	results := []extractResponse{
		{
			Nodes: []extractNode{{Name: "a"}, {Name: "b"}},
			Links: []extractLink{
				{Source: "a", Target: "b", Label: "weak", Strength: 2},
				{Source: "b", Target: "a", Label: "strong", Strength: 8},
			},
		},
	}

	graph, err := mergeResults(results)
	if err != nil {
		t.Fatal(err)
	}
	if len(graph.Links) != 1 {
		t.Fatalf("reversed duplicate should merge, got %+v", graph.Links)
	}
	if graph.Links[0].Strength != 8 || graph.Links[0].Label != "strong" {
		t.Fatalf("stronger duplicate should win: %+v", graph.Links[0])
	}
}

func TestExtractUnitStructuredCall(t *testing.T) {
	client := &fakeClient{
		responses: []extractResponse{
			{Nodes: []extractNode{{Name: "a", Type: "concept"}}},
		},
	}
	e := New(client, Options{})

	res, err := e.extractUnit(context.Background(), Unit{ID: "u1", Text: "text"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Nodes) != 1 || res.Nodes[0].Name != "a" {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestTagClusters(t *testing.T) {
	client := &fakeClient{
		completions: []string{" Computing \n"},
		embeddings: map[string][]float32{
			"a": {1, 0, 0},
			"b": {0.99, 0.1, 0},
			"c": {0, 1, 0},
		},
	}
	e := New(client, Options{})

	graph := &common.GraphData{Nodes: []common.Node{
		{ID: "1", Label: "a"},
		{ID: "2", Label: "b"},
		{ID: "3", Label: "c"},
	}}

	vectors, err := e.TagClusters(context.Background(), graph, ClusterOptions{Threshold: 0.9})
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vectors))
	}

	if graph.Nodes[0].Cluster != "Computing" || graph.Nodes[1].Cluster != "Computing" {
		t.Fatalf("similar nodes should share a trimmed cluster label: %+v", graph.Nodes)
	}
	if graph.Nodes[2].Cluster != "" {
		t.Fatalf("singleton group should stay untagged, got %q", graph.Nodes[2].Cluster)
	}
}

func TestGroupBySimilarity(t *testing.T) {
	vectors := [][]float32{
		{1, 0},
		{0.95, 0.05},
		{0, 1},
		{-1, 0},
	}

	groups := groupBySimilarity(vectors, 0.9)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3: %v", len(groups), groups)
	}
	if len(groups[0]) != 2 || groups[0][0] != 0 || groups[0][1] != 1 {
		t.Fatalf("first group should contain the two aligned vectors: %v", groups)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if sim := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); math.Abs(sim-1) > 1e-6 {
		t.Fatalf("identical vectors sim = %v, want 1", sim)
	}
	if sim := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); math.Abs(sim) > 1e-6 {
		t.Fatalf("orthogonal vectors sim = %v, want 0", sim)
	}
	if sim := cosineSimilarity([]float32{0, 0}, []float32{1, 0}); sim != 0 {
		t.Fatalf("zero vector sim = %v, want 0", sim)
	}
}
