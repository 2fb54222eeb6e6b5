package util

import "testing"

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"clean", "hello world", "hello world"},
		{"nul bytes", "a\x00b\x00c", "abc"},
		{"invalid utf8", "ok\xff\xfemore", "okmore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Fatalf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
