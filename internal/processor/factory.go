package processor

import (
	"context"

	"codeberg.org/snonux/imgspeak/internal"
	"codeberg.org/snonux/imgspeak/internal/audio"
	"codeberg.org/snonux/imgspeak/internal/auth"
	"codeberg.org/snonux/imgspeak/internal/caption"
	"codeberg.org/snonux/imgspeak/internal/cli"
	"codeberg.org/snonux/imgspeak/internal/image"
	"codeberg.org/snonux/imgspeak/internal/log"
	"codeberg.org/snonux/imgspeak/internal/translation"
)

// NewFromFlags builds a processor with the real backends selected by the
// command line. Credentials are read here, once per process. Configuration
// errors are returned as a *StageError for StateInit.
func NewFromFlags(ctx context.Context, flags *cli.Flags) (*Processor, error) {
	token := cli.GetHuggingFaceToken()
	openAIKey := cli.GetOpenAIKey()

	captionConfig := caption.DefaultConfig()
	captionConfig.Provider = flags.CaptionProvider
	captionConfig.Model = flags.CaptionModel
	captionConfig.HuggingFaceToken = token
	captionConfig.OpenAIKey = openAIKey
	captionConfig.GeminiKey = cli.GetGeminiKey()

	captioner, err := caption.New(ctx, captionConfig)
	if err != nil {
		if token != "" {
			return nil, configError(err)
		}
		// Without a token the run stops at Init before captioning
		log.Debugf("captioner not created: %v", err)
	}

	translationConfig := translation.DefaultConfig()
	translationConfig.Provider = flags.Translator
	translationConfig.MyMemoryEmail = flags.MyMemoryEmail
	translationConfig.OpenAIKey = openAIKey
	translationConfig.OpenAIModel = flags.TranslationModel

	translator, err := translation.New(translationConfig)
	if err != nil {
		return nil, configError(err)
	}

	audioConfig := audio.DefaultProviderConfig()
	audioConfig.Provider = flags.TTSProvider
	audioConfig.Fallback = flags.TTSFallback
	audioConfig.OpenAIKey = openAIKey
	audioConfig.OpenAIModel = flags.OpenAIModel
	audioConfig.OpenAIVoice = flags.OpenAIVoice
	audioConfig.OpenAISpeed = flags.OpenAISpeed
	if flags.OpenAIInstruction != "" {
		audioConfig.OpenAIInstruction = flags.OpenAIInstruction
	}

	speaker, err := audio.NewProvider(audioConfig)
	if err != nil {
		return nil, configError(err)
	}

	outputFile := flags.OutputFile
	if outputFile == "" {
		outputFile = internal.DefaultOutputFile(normalizeLang(flags.TargetLang))
	}

	config := Config{
		Token:      token,
		SourceLang: flags.SourceLang,
		TargetLang: flags.TargetLang,
		OutputFile: outputFile,
		Generation: caption.GenerationConfig{
			MaxLength:     flags.MaxLength,
			MinLength:     flags.MinLength,
			NumBeams:      flags.NumBeams,
			LengthPenalty: flags.LengthPenalty,
		},
	}

	stages := Stages{
		Auth:       auth.NewAuthenticator(auth.DefaultEndpoint, nil),
		Loader:     image.NewLoader(nil, image.DefaultLoaderOptions()),
		Translator: translator,
		Speaker:    speaker,
	}
	// A nil *Generator must not become a non-nil interface
	if captioner != nil {
		stages.Captioner = captioner
	}

	return New(config, stages), nil
}

func configError(err error) error {
	log.Errorf("pipeline stopped at Failed(%s): %v", StateInit, err)
	return &StageError{Stage: StateInit, Err: err}
}
