package extract

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "single sentence",
			text: "Ada Lovelace wrote the first program.",
			want: []string{"Ada Lovelace wrote the first program."},
		},
		{
			name: "multiple terminators",
			text: "First. Second! Third?",
			want: []string{"First.", "Second!", "Third?"},
		},
		{
			name: "no trailing terminator",
			text: "First. Second without period",
			want: []string{"First.", "Second without period"},
		},
		{
			name: "period inside word does not split",
			text: "Version 1.5 shipped. It worked.",
			want: []string{"Version 1.5 shipped.", "It worked."},
		},
		{
			name: "newlines split",
			text: "Heading\nBody sentence one. Body sentence two.",
			want: []string{"Heading", "Body sentence one.", "Body sentence two."},
		},
		{
			name: "blank lines dropped",
			text: "One.\n\n\nTwo.",
			want: []string{"One.", "Two."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("splitSentences() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func TestBuildUnitsRespectsBudget(t *testing.T) {
	sentences := []string{
		"one two three.",
		"four five.",
		"six seven eight nine.",
		"ten.",
	}

	units, err := buildUnits(sentences, wordCount, 5)
	if err != nil {
		t.Fatal(err)
	}

	if len(units) != 2 {
		t.Fatalf("got %d units, want 2: %+v", len(units), units)
	}

	wantTexts := []string{
		"one two three. four five.",
		"six seven eight nine. ten.",
	}
	for i, want := range wantTexts {
		if units[i].Text != want {
			t.Fatalf("unit %d text %q, want %q", i, units[i].Text, want)
		}
	}

	// Start/End are sentence indexes and must tile the input.
	if units[0].Start != 0 || units[0].End != 2 || units[1].Start != 2 {
		t.Fatalf("unit ranges wrong: %+v", units)
	}
	if units[1].End != len(sentences) {
		t.Fatalf("last unit must end at sentence count, got %d", units[1].End)
	}
}

func TestBuildUnitsOversizedSentence(t *testing.T) {
	sentences := []string{
		"short.",
		"this sentence is far longer than any budget allows at all.",
		"tail.",
	}

	units, err := buildUnits(sentences, wordCount, 3)
	if err != nil {
		t.Fatal(err)
	}

	if len(units) != 3 {
		t.Fatalf("got %d units, want 3: %+v", len(units), units)
	}
	if units[1].Text != sentences[1] {
		t.Fatalf("oversized sentence should become its own unit, got %q", units[1].Text)
	}
}

func TestBuildUnitsUniqueIDs(t *testing.T) {
	units, err := buildUnits([]string{"a.", "b.", "c."}, wordCount, 1)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for _, u := range units {
		if u.ID == "" || seen[u.ID] {
			t.Fatalf("unit ids must be unique and non-empty: %+v", units)
		}
		seen[u.ID] = true
	}
}

func TestBuildUnitsEmpty(t *testing.T) {
	units, err := buildUnits(nil, wordCount, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 0 {
		t.Fatalf("expected no units, got %+v", units)
	}
}
