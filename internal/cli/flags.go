package cli

// DefaultImageURL is described when no URL argument is given
const DefaultImageURL = "https://cdn.pixabay.com/photo/2023/08/05/08/15/ship-8170663_1280.jpg"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	OutputFile string
	SourceLang string
	TargetLang string
	Archive    bool
	ListModels bool
	LogLevel   string

	// Caption flags
	CaptionProvider string
	CaptionModel    string
	MaxLength       int
	MinLength       int
	NumBeams        int
	LengthPenalty   float64

	// Translation flags
	Translator       string
	TranslationModel string
	MyMemoryEmail    string

	// Speech flags
	TTSProvider string
	TTSFallback string

	// OpenAI TTS flags
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		SourceLang:      "en",
		TargetLang:      "pt",
		LogLevel:        "info",
		CaptionProvider: "huggingface",
		MaxLength:       30,
		MinLength:       5,
		NumBeams:        3,
		LengthPenalty:   1.0,
		Translator:      "mymemory",
		TTSProvider:     "gtts",
		OpenAIModel:     "gpt-4o-mini-tts",
		OpenAIVoice:     "alloy",
		OpenAISpeed:     1.0,
	}
}
