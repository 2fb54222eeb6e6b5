package ai

import (
	"encoding/json"
	"testing"
)

type schemaTarget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema(&schemaTarget{})

	raw, err := json.Marshal(schema)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}

	props, ok := decoded["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties object: %s", raw)
	}
	for _, field := range []string{"name", "count"} {
		if _, ok := props[field]; !ok {
			t.Fatalf("schema missing field %q: %s", field, raw)
		}
	}
	if decoded["additionalProperties"] != false {
		t.Fatalf("schema allows additional properties: %s", raw)
	}
}

func TestUnmarshalFlexible(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  schemaTarget
	}{
		{"standard json", `{"name":"a","count":2}`, schemaTarget{"a", 2}},
		{"double encoded", `"{\"name\":\"b\",\"count\":3}"`, schemaTarget{"b", 3}},
		{"unquoted keys", `{name: "c", count: 4}`, schemaTarget{"c", 4}},
		{"trailing comma", `{"name":"d","count":5,}`, schemaTarget{"d", 5}},
		{"doubled brace", `{{"name":"e","count":6}`, schemaTarget{"e", 6}},
		{"surrounding whitespace", "  \n{\"name\":\"f\",\"count\":7}\n ", schemaTarget{"f", 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got schemaTarget
			if err := UnmarshalFlexible(tt.input, &got); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalFlexibleUnrepairable(t *testing.T) {
	var got schemaTarget
	if err := UnmarshalFlexible("not json at all {{{]", &got); err == nil {
		t.Fatal("expected error for unrepairable input")
	}
}
