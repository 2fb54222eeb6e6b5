package extract

import (
	"strings"
	"unicode"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkoukk/tiktoken-go"
)

// Unit is one token-bounded slice of a document, the granularity at
// which the model is prompted. Start and End are sentence indexes into
// the split document.
type Unit struct {
	ID    string
	Start int
	End   int
	Text  string
}

// SplitUnits splits text into units of at most maxTokens tokens,
// breaking on sentence boundaries. A single sentence above the budget
// becomes a unit of its own rather than being cut mid-sentence.
func SplitUnits(text string, encoder string, maxTokens int) ([]Unit, error) {
	enc, err := tiktoken.GetEncoding(encoder)
	if err != nil {
		return nil, err
	}
	count := func(s string) int {
		return len(enc.Encode(s, nil, nil))
	}
	return buildUnits(splitSentences(text), count, maxTokens)
}

// buildUnits batches sentences into units under the token budget.
func buildUnits(sentences []string, countTokens func(string) int, maxTokens int) ([]Unit, error) {
	if len(sentences) == 0 {
		return nil, nil
	}

	var units []Unit
	chunkStart := 0
	chunkTokens := 0

	flush := func(end int) error {
		if end <= chunkStart {
			return nil
		}
		id, err := gonanoid.New()
		if err != nil {
			return err
		}
		units = append(units, Unit{
			ID:    id,
			Start: chunkStart,
			End:   end,
			Text:  strings.Join(sentences[chunkStart:end], " "),
		})
		chunkStart = end
		chunkTokens = 0
		return nil
	}

	for i, s := range sentences {
		n := countTokens(s)
		if chunkTokens+n > maxTokens && chunkTokens > 0 {
			if err := flush(i); err != nil {
				return nil, err
			}
		}
		chunkTokens += n
	}
	if err := flush(len(sentences)); err != nil {
		return nil, err
	}

	return units, nil
}

// splitSentences breaks text on sentence terminators and blank lines.
// Whitespace-only fragments are dropped.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' {
			flush()
			continue
		}
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				flush()
			}
		}
	}
	flush()

	return sentences
}
