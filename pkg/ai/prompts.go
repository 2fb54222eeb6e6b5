package ai

import (
	"fmt"
	"strings"
)

// ExtractionSystemPrompt primes the model for graph extraction. It is
// passed as a system prompt for every extraction unit.
const ExtractionSystemPrompt = `You are an information extraction system. You read a passage of text and produce a knowledge graph of the entities it mentions and the relationships between them.

Entity types:
- "person": an individual human being
- "concept": an abstract idea, theory, field, or topic
- "data": a dataset, document, measurement, or concrete piece of information
- "method": a technique, process, algorithm, or procedure
- "organization": a company, institution, team, or other group

Rules:
- Entity names are short noun phrases taken from the text, deduplicated.
- Every relationship must connect two extracted entities by their exact names.
- Relationship labels are short verb phrases ("developed", "works at", "is part of").
- Strength is an integer from 1 (incidental mention) to 10 (central, repeatedly supported relationship).
- Do not invent entities or relationships the text does not support.
- Respond only with the requested JSON structure.`

// ExtractionPrompt builds the per-unit user prompt. Known entity names
// from earlier units are provided so the model reuses names instead of
// inventing variants.
func ExtractionPrompt(text string, knownEntities []string) string {
	var b strings.Builder
	b.WriteString("Extract the knowledge graph from the following passage.\n")
	if len(knownEntities) > 0 {
		b.WriteString("\nEntity names already known from earlier passages of the same document (reuse these names when the passage refers to the same entity):\n")
		for _, name := range knownEntities {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	b.WriteString("\nPassage:\n")
	b.WriteString(text)
	return b.String()
}

// DescriptionMergePrompt asks for a single description for an entity
// seen in several units.
func DescriptionMergePrompt(name string, descriptions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Merge the following partial descriptions of %q into one concise description of at most two sentences. Keep only facts present in the inputs.\n\n", name)
	for _, d := range descriptions {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	return b.String()
}

// ClusterLabelPrompt asks for a short topic label naming a group of
// related entities.
func ClusterLabelPrompt(names []string) string {
	var b strings.Builder
	b.WriteString("Give a topic label of at most three words for the following group of related entities. Respond with the label only.\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	return b.String()
}
