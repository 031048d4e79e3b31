package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Kim Coach  ", want: "Kim Coach"},
		{name: "multiple spaces between words", input: "Kim    Coach", want: "Kim Coach"},
		{name: "tabs and newlines", input: "Kim\t\nCoach", want: "Kim Coach"},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n  ", want: ""},
		{name: "preserve special characters", input: " Café & Spa™ ", want: "Café & Spa™"},
		{name: "korean characters", input: " 김 코치 ", want: "김 코치"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, TrimAndNormalize(got), "must be idempotent")
		})
	}
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "m1", NormalizeID("  m1\t"))
	assert.Equal(t, "a b", NormalizeID(" a b "))
}

func TestNormalizeMessage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "single line", input: "  Studio   closed  ", want: "Studio closed"},
		{name: "keeps line breaks", input: "Line one\n  Line   two ", want: "Line one\nLine two"},
		{name: "crlf", input: "a\r\nb", want: "a\nb"},
		{name: "blank edges", input: "\n\n hello \n\n", want: "hello"},
		{name: "empty", input: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeMessage(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeMessage(got))
		})
	}
}
