package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/imgspeak/internal/log"
)

// SynthesisError is returned when speech could not be written to Path
type SynthesisError struct {
	Provider string
	Path     string
	Cause    error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("speech synthesis with %s into %s failed: %v", e.Provider, e.Path, e.Cause)
}

func (e *SynthesisError) Unwrap() error {
	return e.Cause
}

// Synthesize speaks text with p and stores the audio at dst. The provider
// writes into a temporary file next to dst which is renamed over dst only
// when complete, so a failed run never leaves a partial file at dst.
func Synthesize(ctx context.Context, p Provider, text, lang, dst string) error {
	fail := func(err error) error {
		return &SynthesisError{Provider: p.Name(), Path: dst, Cause: err}
	}

	text = strings.TrimSpace(text)
	if err := ValidateText(text, lang); err != nil {
		return fail(err)
	}
	if !supportsLanguage(p, lang) {
		return fail(fmt.Errorf("language not supported by %s: %s", p.Name(), lang))
	}
	if err := p.IsAvailable(); err != nil {
		return fail(err)
	}

	dir := filepath.Dir(dst)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fail(fmt.Errorf("failed to create output directory: %w", err))
		}
	}

	tmp, err := createTemp(dst)
	if err != nil {
		return fail(err)
	}
	defer os.Remove(tmp) // no-op after a successful rename

	log.Debugf("synthesizing %d chars with %s into %s", len(text), p.Name(), tmp)
	if err := p.GenerateAudio(ctx, text, lang, tmp); err != nil {
		return fail(err)
	}

	info, err := os.Stat(tmp)
	if err != nil {
		return fail(fmt.Errorf("audio file missing: %w", err))
	}
	if info.Size() == 0 {
		return fail(fmt.Errorf("provider produced an empty audio file"))
	}

	if err := os.Rename(tmp, dst); err != nil {
		return fail(fmt.Errorf("failed to move audio into place: %w", err))
	}
	return nil
}

// createTemp reserves ".<stem>.tmp-<random><ext>" in the directory of dst
func createTemp(dst string) (string, error) {
	base := filepath.Base(dst)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	f, err := os.CreateTemp(filepath.Dir(dst), "."+stem+".tmp-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
