// Package extract turns document text into a GraphData by chunking it
// into token-bounded units, prompting a language model per unit with a
// structured-output schema, and merging the per-unit results into one
// validated graph.
package extract

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"plexus/internal/util"
	"plexus/pkg/ai"
	"plexus/pkg/common"
	"plexus/pkg/logger"
)

type extractNode struct {
	Name        string `json:"name" jsonschema_description:"Name of the entity, a short noun phrase from the text"`
	Type        string `json:"type" jsonschema_description:"One of: person, concept, data, method, organization"`
	Description string `json:"description" jsonschema_description:"Concise description of the entity based on the passage"`
}

type extractLink struct {
	Source   string  `json:"source" jsonschema_description:"Name of the source entity, exactly as extracted"`
	Target   string  `json:"target" jsonschema_description:"Name of the target entity, exactly as extracted"`
	Label    string  `json:"label" jsonschema_description:"Short verb phrase describing the relationship"`
	Strength float64 `json:"strength" jsonschema_description:"Relationship strength from 1 to 10"`
}

type extractResponse struct {
	Nodes []extractNode `json:"nodes" jsonschema_description:"Entities identified in the passage"`
	Links []extractLink `json:"links" jsonschema_description:"Relationships identified in the passage"`
}

// Options tune an extraction run. The zero value is usable.
type Options struct {
	// Model overrides the client's default chat model.
	Model string
	// Encoder is the tiktoken encoding used for unit budgeting.
	Encoder string
	// MaxUnitTokens bounds the size of one extraction unit.
	MaxUnitTokens int
	// Concurrency bounds parallel unit requests.
	Concurrency int
	// MaxRetries is the per-unit retry budget for model failures.
	MaxRetries int
}

func (o *Options) applyDefaults() {
	if o.Encoder == "" {
		o.Encoder = "o200k_base"
	}
	if o.MaxUnitTokens == 0 {
		o.MaxUnitTokens = 1200
	}
	if o.Concurrency == 0 {
		o.Concurrency = 4
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 3
	}
}

// Extractor runs the document-to-graph pipeline against one model
// client.
type Extractor struct {
	client ai.GraphAIClient
	opts   Options
}

// New builds an Extractor.
func New(client ai.GraphAIClient, opts Options) *Extractor {
	opts.applyDefaults()
	return &Extractor{client: client, opts: opts}
}

// Extract produces a validated GraphData from document text. Units are
// processed in waves so later waves can reuse entity names discovered
// earlier, which keeps the model from inventing name variants across
// unit boundaries.
func (e *Extractor) Extract(ctx context.Context, text string) (*common.GraphData, error) {
	units, err := SplitUnits(text, e.opts.Encoder, e.opts.MaxUnitTokens)
	if err != nil {
		return nil, fmt.Errorf("split units: %w", err)
	}
	if len(units) == 0 {
		return &common.GraphData{Nodes: []common.Node{}, Links: []common.Link{}}, nil
	}

	logger.Info("extracting graph", "units", len(units))

	var (
		mu      sync.Mutex
		results = make([]extractResponse, len(units))
		known   []string
	)

	for wave := 0; wave < len(units); wave += e.opts.Concurrency {
		end := wave + e.opts.Concurrency
		if end > len(units) {
			end = len(units)
		}

		waveKnown := append([]string(nil), known...)
		eg, ectx := errgroup.WithContext(ctx)
		for i := wave; i < end; i++ {
			idx := i
			eg.Go(func() error {
				res, err := e.extractUnit(ectx, units[idx], waveKnown)
				if err != nil {
					return fmt.Errorf("unit %d/%d: %w", idx+1, len(units), err)
				}
				mu.Lock()
				results[idx] = res
				mu.Unlock()
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}

		known = knownNames(results[:end])
	}

	graph, err := mergeResults(results)
	if err != nil {
		return nil, err
	}
	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("merged graph invalid: %w", err)
	}
	return graph, nil
}

func (e *Extractor) extractUnit(ctx context.Context, unit Unit, known []string) (extractResponse, error) {
	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(ai.ExtractionSystemPrompt),
	}
	if e.opts.Model != "" {
		opts = append(opts, ai.WithModel(e.opts.Model))
	}

	prompt := ai.ExtractionPrompt(unit.Text, known)

	return util.RetryWithContext(ctx, e.opts.MaxRetries, func(ctx context.Context) (extractResponse, error) {
		var res extractResponse
		err := e.client.GenerateCompletionWithFormat(
			ctx,
			"extract_graph",
			"Extract entities and relationships from a document passage.",
			prompt,
			&res,
			opts...,
		)
		return res, err
	})
}

func knownNames(results []extractResponse) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range results {
		for _, n := range r.Nodes {
			key := normalizeName(n.Name)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			names = append(names, strings.TrimSpace(n.Name))
		}
	}
	sort.Strings(names)
	return names
}

// mergeResults folds per-unit responses into one graph: nodes are
// deduplicated by normalized name, model types map onto the NodeType
// enumeration, strengths are clamped into [1,10], and links that name
// entities the model never extracted are dropped.
func mergeResults(results []extractResponse) (*common.GraphData, error) {
	graph := &common.GraphData{Nodes: []common.Node{}, Links: []common.Link{}}
	index := make(map[string]int)

	for _, r := range results {
		for _, n := range r.Nodes {
			key := normalizeName(n.Name)
			if key == "" {
				continue
			}
			if i, ok := index[key]; ok {
				merged := &graph.Nodes[i]
				if merged.Description == "" {
					merged.Description = strings.TrimSpace(n.Description)
				}
				if merged.Type == common.NodeTypeUnknown {
					merged.Type = common.ParseNodeType(strings.ToLower(strings.TrimSpace(n.Type)))
				}
				continue
			}

			id, err := gonanoid.New()
			if err != nil {
				return nil, fmt.Errorf("generate node id: %w", err)
			}
			index[key] = len(graph.Nodes)
			graph.Nodes = append(graph.Nodes, common.Node{
				ID:          id,
				Label:       strings.TrimSpace(n.Name),
				Type:        common.ParseNodeType(strings.ToLower(strings.TrimSpace(n.Type))),
				Description: strings.TrimSpace(n.Description),
			})
		}
	}

	type linkKey struct {
		source, target int
	}
	linkIndex := make(map[linkKey]int)

	for _, r := range results {
		for _, l := range r.Links {
			si, ok := index[normalizeName(l.Source)]
			if !ok {
				logger.Debug("dropping link with unknown source", "source", l.Source)
				continue
			}
			ti, ok := index[normalizeName(l.Target)]
			if !ok {
				logger.Debug("dropping link with unknown target", "target", l.Target)
				continue
			}
			if si == ti {
				continue
			}

			key := linkKey{source: si, target: ti}
			if si > ti {
				key = linkKey{source: ti, target: si}
			}
			strength := clampStrength(l.Strength)

			if i, ok := linkIndex[key]; ok {
				// Same pair seen again: keep the stronger score.
				if strength > graph.Links[i].Strength {
					graph.Links[i].Strength = strength
					graph.Links[i].Label = strings.TrimSpace(l.Label)
				}
				continue
			}

			linkIndex[key] = len(graph.Links)
			graph.Links = append(graph.Links, common.Link{
				Source:   common.NodeRef{ID: graph.Nodes[si].ID},
				Target:   common.NodeRef{ID: graph.Nodes[ti].ID},
				Label:    strings.TrimSpace(l.Label),
				Strength: strength,
			})
		}
	}

	return graph, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func clampStrength(s float64) float64 {
	if math.IsNaN(s) || s < 1 {
		return 1
	}
	if s > 10 {
		return 10
	}
	return s
}
