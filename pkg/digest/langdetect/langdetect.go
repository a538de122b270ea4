// Package langdetect guesses the language of extracted document text.
package langdetect

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// sampleRunes bounds how much text is handed to the detector.
const sampleRunes = 4000

var defaultLanguages = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
}

// Detector wraps a lingua language detector.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over the given languages, or a fixed set of
// European languages when none are passed.
func New(languages ...lingua.Language) *Detector {
	if len(languages) < 2 {
		languages = defaultLanguages
	}
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		WithMinimumRelativeDistance(0.1).
		Build()
	return &Detector{detector: d}
}

// Detect returns the lower-case ISO 639-1 code of text's language, or ""
// when no language is reliably detected.
func (d *Detector) Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if r := []rune(text); len(r) > sampleRunes {
		text = string(r[:sampleRunes])
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
