package main

import "testing"

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Typos within edit distance 2
		{"chek", "check"},
		{"chekc", "check"},
		{"cheque", ""},
		{"fil", "fill"},
		{"fll", "fill"},
		{"mapp", "map"},
		{"lnt", "lint"},
		{"lintt", "lint"},
		{"mc", "mcp"},
		{"versio", "version"},
		{"verison", "version"},
		{"hep", "help"},

		// Too far - no suggestion (distance > 2)
		{"xyz", ""},
		{"foobar", ""},
		{"validate", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := suggestCommand(tt.input)
			if got != tt.expected {
				t.Errorf("suggestCommand(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "map", 3},
		{"check", "check", 0},
		{"check", "chekc", 2},
		{"fill", "fil", 1},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no args", nil, 1},
		{"help", []string{"help"}, 0},
		{"version", []string{"version"}, 0},
		{"unknown", []string{"chek"}, 1},
		{"check passes", []string{"check", "-q", "-s", "../../validator/testdata/schemas/person.json", "-sf", "../../validator/testdata/schemas"}, 0},
		{"legacy form", []string{"-q", "-s", "../../validator/testdata/schemas/person.json", "-sf", "../../validator/testdata/schemas"}, 0},
		{"check fails", []string{"check", "-q", "-s", "../../validator/testdata/schemas/untitled.json", "-sf", "../../validator/testdata/schemas"}, 1},
		{"cyclic", []string{"-q", "-s", "../../validator/testdata/schemas/cyclic.json", "-sf", "../../validator/testdata/schemas"}, 1},
		{"map", []string{"map", "http://example.com/a"}, 0},
		{"lint passes", []string{"lint", "-q", "../../validator/testdata/schemas/person.json"}, 0},
		{"lint fails", []string{"lint", "-q", "../../validator/testdata/schemas/missing.json"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}
