package extract

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"plexus/pkg/ai"
	"plexus/pkg/common"
	"plexus/pkg/logger"
)

// ClusterOptions tune cluster tagging.
type ClusterOptions struct {
	// Threshold is the minimum cosine similarity to an existing group
	// centroid for a node to join that group.
	Threshold float64
	// MinSize is the smallest group that gets a label; smaller groups
	// stay untagged.
	MinSize int
	// Concurrency bounds parallel embedding requests.
	Concurrency int
	// Model overrides the client's default chat model for labeling.
	Model string
}

func (o *ClusterOptions) applyDefaults() {
	if o.Threshold == 0 {
		o.Threshold = 0.8
	}
	if o.MinSize == 0 {
		o.MinSize = 2
	}
	if o.Concurrency == 0 {
		o.Concurrency = 4
	}
}

// TagClusters embeds every node's label and description, groups nodes
// by embedding similarity, and fills Node.Cluster with a model-named
// topic label per group. The graph is modified in place; nodes outside
// any labeled group keep an empty Cluster. The embedding vectors are
// returned by node order for the caller to persist.
func (e *Extractor) TagClusters(ctx context.Context, graph *common.GraphData, opts ClusterOptions) ([][]float32, error) {
	opts.applyDefaults()
	if len(graph.Nodes) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(graph.Nodes))
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Concurrency)
	for i := range graph.Nodes {
		idx := i
		eg.Go(func() error {
			n := graph.Nodes[idx]
			vec, err := e.client.GenerateEmbedding(ectx, []byte(n.Label+"\n"+n.Description))
			if err != nil {
				return fmt.Errorf("embed node %q: %w", n.ID, err)
			}
			vectors[idx] = vec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	groups := groupBySimilarity(vectors, opts.Threshold)
	logger.Info("clustered nodes", "nodes", len(graph.Nodes), "groups", len(groups))

	genOpts := []ai.GenerateOption{ai.WithTemperature(0.2)}
	if opts.Model != "" {
		genOpts = append(genOpts, ai.WithModel(opts.Model))
	}

	for _, members := range groups {
		if len(members) < opts.MinSize {
			continue
		}
		names := make([]string, 0, len(members))
		for _, i := range members {
			names = append(names, graph.Nodes[i].Label)
		}

		label, err := e.client.GenerateCompletion(ctx, ai.ClusterLabelPrompt(names), genOpts...)
		if err != nil {
			return nil, fmt.Errorf("label cluster: %w", err)
		}
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		for _, i := range members {
			graph.Nodes[i].Cluster = label
		}
	}

	return vectors, nil
}

// groupBySimilarity assigns each vector to the first group whose
// centroid is at least threshold similar, creating a new group when
// none qualifies. Greedy and order dependent, which is fine for tag
// granularity.
func groupBySimilarity(vectors [][]float32, threshold float64) [][]int {
	var groups [][]int
	var centroids [][]float32

	for i, vec := range vectors {
		best := -1
		bestSim := threshold
		for g, c := range centroids {
			if sim := cosineSimilarity(vec, c); sim >= bestSim {
				best = g
				bestSim = sim
			}
		}
		if best < 0 {
			groups = append(groups, []int{i})
			centroids = append(centroids, append([]float32(nil), vec...))
			continue
		}
		groups[best] = append(groups[best], i)
		updateCentroid(centroids[best], vec, len(groups[best]))
	}

	return groups
}

// updateCentroid folds vec into a running mean of n members.
func updateCentroid(centroid, vec []float32, n int) {
	for j := range centroid {
		if j >= len(vec) {
			break
		}
		centroid[j] += (vec[j] - centroid[j]) / float32(n)
	}
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
