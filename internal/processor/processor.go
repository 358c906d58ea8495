package processor

import (
	"context"
	"errors"
	"fmt"
	stdimage "image"
	"io"
	"os"
	"strings"

	"codeberg.org/snonux/imgspeak/internal"
	"codeberg.org/snonux/imgspeak/internal/audio"
	"codeberg.org/snonux/imgspeak/internal/auth"
	"codeberg.org/snonux/imgspeak/internal/caption"
	"codeberg.org/snonux/imgspeak/internal/log"
	"codeberg.org/snonux/imgspeak/internal/translation"
)

// Authenticator verifies the hub credential
type Authenticator interface {
	Login(ctx context.Context, token string) (*auth.Identity, error)
}

// ImageLoader fetches and decodes a remote image
type ImageLoader interface {
	LoadImage(ctx context.Context, url string) (stdimage.Image, error)
}

// Stages are the components a Processor drives, one per state transition
type Stages struct {
	Auth       Authenticator
	Loader     ImageLoader
	Captioner  caption.Captioner
	Translator translation.Translator
	Speaker    audio.Provider
}

// Config holds the per-run settings
type Config struct {
	Token      string // Used for a single login, then discarded
	SourceLang string
	TargetLang string
	OutputFile string
	Generation caption.GenerationConfig
}

// Processor handles the main pipeline logic
type Processor struct {
	config Config
	stages Stages
	out    io.Writer
}

// New creates a processor. Language codes are trimmed and lower-cased so
// every stage sees the same code. Empty languages default to "en" -> "pt"
// and an empty output file to description_<target>.mp3.
func New(config Config, stages Stages) *Processor {
	config.SourceLang = normalizeLang(config.SourceLang)
	config.TargetLang = normalizeLang(config.TargetLang)
	if config.SourceLang == "" {
		config.SourceLang = "en"
	}
	if config.TargetLang == "" {
		config.TargetLang = "pt"
	}
	if config.OutputFile == "" {
		config.OutputFile = internal.DefaultOutputFile(config.TargetLang)
	}
	if config.Generation == (caption.GenerationConfig{}) {
		config.Generation = caption.DefaultGenerationConfig()
	}

	return &Processor{config: config, stages: stages, out: os.Stdout}
}

// SetOutput redirects the operator messages, stdout by default
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

// OutputFile returns the audio destination
func (p *Processor) OutputFile() string {
	return p.config.OutputFile
}

// Run executes the pipeline for url. On failure the returned error is a
// *StageError and the result tells which stage failed.
func (p *Processor) Run(ctx context.Context, url string) (*Result, error) {
	res := &Result{RunID: internal.GenerateRunID(), State: StateInit}
	logger := log.With("run", res.RunID)

	fail := func(stage State, err error) (*Result, error) {
		res.Failed = true
		res.FailedStage = stage
		logger.Errorf("pipeline stopped at Failed(%s): %v", stage, err)
		return res, &StageError{Stage: stage, Err: err}
	}

	logger.Infof("Processing %s (%s -> %s)", url, p.config.SourceLang, p.config.TargetLang)

	// Init -> Authenticated
	token := p.config.Token
	p.config.Token = ""
	identity, err := p.authenticate(ctx, token)
	if err != nil {
		var authErr *auth.Error
		if errors.As(err, &authErr) && authErr.Kind == auth.Missing {
			return fail(StateInit, err)
		}
		return fail(StateAuthenticated, err)
	}
	res.Account = identity.Name
	res.State = StateAuthenticated
	logger.Infof("Authenticated as %s", identity.Name)

	// Authenticated -> ImageLoaded
	if p.stages.Loader == nil {
		return fail(StateImageLoaded, errors.New("no image loader configured"))
	}
	img, err := p.stages.Loader.LoadImage(ctx, url)
	if err != nil {
		return fail(StateImageLoaded, err)
	}
	res.State = StateImageLoaded
	bounds := img.Bounds()
	logger.Debugf("Image loaded: %dx%d", bounds.Dx(), bounds.Dy())

	// ImageLoaded -> Captioned
	if p.stages.Captioner == nil {
		return fail(StateCaptioned, errors.New("no captioner configured"))
	}
	text, err := p.stages.Captioner.Caption(ctx, img, p.config.Generation)
	if err != nil {
		return fail(StateCaptioned, err)
	}
	res.Caption = text
	res.State = StateCaptioned
	logger.Infof("Caption: %s", text)

	// Captioned -> Translated
	if p.stages.Translator == nil {
		return fail(StateTranslated, errors.New("no translator configured"))
	}
	translated, err := p.stages.Translator.Translate(ctx, text, p.config.SourceLang, p.config.TargetLang)
	if err != nil {
		return fail(StateTranslated, err)
	}
	res.Translation = translated
	res.State = StateTranslated
	logger.Infof("Translation: %s", translated)
	fmt.Fprintf(p.out, "Translated caption (%s): %s\n", p.config.TargetLang, translated)

	// Translated -> Synthesized
	if p.stages.Speaker == nil {
		return fail(StateSynthesized, errors.New("no speech provider configured"))
	}
	if err := audio.Synthesize(ctx, p.stages.Speaker, translated, p.config.TargetLang, p.config.OutputFile); err != nil {
		return fail(StateSynthesized, err)
	}
	res.AudioFile = p.config.OutputFile
	res.State = StateSynthesized
	logger.Infof("Audio saved to %s", p.config.OutputFile)
	fmt.Fprintf(p.out, "Audio saved to: %s\n", p.config.OutputFile)

	return res, nil
}

func normalizeLang(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

func (p *Processor) authenticate(ctx context.Context, token string) (*auth.Identity, error) {
	if p.stages.Auth == nil {
		return nil, errors.New("no authenticator configured")
	}
	identity, err := p.stages.Auth.Login(ctx, token)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		identity = &auth.Identity{}
	}
	return identity, nil
}
