package ingest

import (
	"slices"
	"strings"
	"testing"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace", "  \n ", nil},
		{"no delimiter", "One long line without a break", []string{"One long line without a break"}},
		{"three", "Alpha one. Beta two. Gamma three.", []string{"Alpha one.", "Beta two.", "Gamma three."}},
		{"abbreviation kept", "Version 2.0 shipped. It works.", []string{"Version 2.0 shipped.", "It works."}},
		{"lone period", "First. . Second.", []string{"First.", ".", "Second."}},
		{"trailing delimiter", "Only one. ", []string{"Only one."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Sentences(tt.text))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Sentences(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSentencesRestartable(t *testing.T) {
	seq := Sentences("A first. A second. A third.")

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Errorf("second iteration = %q, want %q", second, first)
	}

	// early break must not disturb later iterations
	for range seq {
		break
	}
	if n := len(slices.Collect(seq)); n != 3 {
		t.Errorf("got %d units after early break, want 3", n)
	}
}

func TestSentencesJoinReproducesText(t *testing.T) {
	text := "The pipeline reads PDFs. It ranks sentences. It keeps document order."
	units := slices.Collect(Sentences(text))
	if got := strings.Join(units, " "); got != text {
		t.Errorf("join = %q, want %q", got, text)
	}
}
