package parser_test

import (
	"testing"

	"pdfqa/internal/parser"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "one two", "one two"},
		{"newlines", "one\ntwo\n", "one two "},
		{"crlf", "one\r\ntwo", "one two"},
		{"tabs and runs", "one \t\t two   three", "one two three"},
		{"leading kept", "  one", " one"},
		{"nbsp", "one two", "one two"},
		{"separator controls", "a\x1cb\x1dc\x1ed\x1fe", "a b c d e"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parser.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
