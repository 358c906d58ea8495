package translation

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// Detector guesses the ISO 639-1 language code of a text
type Detector interface {
	Detect(text string) (string, bool)
}

// LinguaDetector detects languages with lingua. The language models are
// loaded on first use since most runs name their source language.
type LinguaDetector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// NewLinguaDetector creates a lazily initialized detector
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{}
}

// Detect returns the lower-case ISO 639-1 code of text
func (d *LinguaDetector) Detect(text string) (string, bool) {
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build()
	})

	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(language.IsoCode639_1().String()), true
}
