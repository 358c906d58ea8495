package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/imgspeak/internal"
	"codeberg.org/snonux/imgspeak/internal/log"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imgspeak [url]",
		Short: "Describe an image aloud in another language",
		Long: `imgspeak fetches an image, captions it in English with a
vision-language model, translates the caption and speaks the translation
into an audio file.

Examples:
  imgspeak                                   # Describe the default ship photo in Portuguese
  imgspeak https://example.org/cat.jpg       # Describe your own image
  imgspeak --target-lang de -o cat_de.mp3 URL
  imgspeak --caption-provider openai --tts-provider openai URL`,
		Args:          cobra.MaximumNArgs(1),
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.imgspeak.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Output audio file (default is description_<target-lang>.mp3)")
	cmd.Flags().StringVar(&flags.SourceLang, "source-lang", flags.SourceLang, "Caption language, or 'auto' to detect it")
	cmd.Flags().StringVar(&flags.TargetLang, "target-lang", flags.TargetLang, "Language to translate and speak the caption in")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move an existing output file into ./archive before running")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")

	// Caption flags
	cmd.Flags().StringVar(&flags.CaptionProvider, "caption-provider", flags.CaptionProvider, "Caption model backend: huggingface, openai, gemini")
	cmd.Flags().StringVar(&flags.CaptionModel, "caption-model", "", "Caption model name (default depends on the provider)")
	cmd.Flags().IntVar(&flags.MaxLength, "max-length", flags.MaxLength, "Maximum caption length in tokens")
	cmd.Flags().IntVar(&flags.MinLength, "min-length", flags.MinLength, "Minimum caption length in tokens")
	cmd.Flags().IntVar(&flags.NumBeams, "num-beams", flags.NumBeams, "Beam search width")
	cmd.Flags().Float64Var(&flags.LengthPenalty, "length-penalty", flags.LengthPenalty, "Beam search length penalty")

	// Translation flags
	cmd.Flags().StringVar(&flags.Translator, "translator", flags.Translator, "Translation backend: mymemory, openai")
	cmd.Flags().StringVar(&flags.TranslationModel, "translation-model", "", "OpenAI chat model used by the openai translator (default gpt-4o-mini)")
	cmd.Flags().StringVar(&flags.MyMemoryEmail, "mymemory-email", "", "Contact e-mail sent to MyMemory for a larger free quota")

	// Speech flags
	cmd.Flags().StringVar(&flags.TTSProvider, "tts-provider", flags.TTSProvider, "Speech backend: gtts, openai")
	cmd.Flags().StringVar(&flags.TTSFallback, "tts-fallback", "", "Speech backend used when the primary one fails")

	// OpenAI TTS flags
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	cmd.Flags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts model (e.g., 'speak slowly and warmly')")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

// viperKeys maps configuration keys to flag names
var viperKeys = map[string]string{
	"output.file":                "output",
	"translation.source_lang":    "source-lang",
	"translation.target_lang":    "target-lang",
	"translation.provider":       "translator",
	"translation.openai_model":   "translation-model",
	"translation.mymemory_email": "mymemory-email",
	"caption.provider":           "caption-provider",
	"caption.model":              "caption-model",
	"caption.max_length":         "max-length",
	"caption.min_length":         "min-length",
	"caption.num_beams":          "num-beams",
	"caption.length_penalty":     "length-penalty",
	"audio.provider":             "tts-provider",
	"audio.fallback":             "tts-fallback",
	"audio.openai_model":         "openai-model",
	"audio.openai_voice":         "openai-voice",
	"audio.openai_speed":         "openai-speed",
	"audio.openai_instruction":   "openai-instruction",
}

func bindFlagsToViper(cmd *cobra.Command) {
	for key, name := range viperKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
	if f := cmd.PersistentFlags().Lookup("log-level"); f != nil {
		_ = viper.BindPFlag("log.level", f)
	}
}

// ApplyConfig copies values from the config file and environment into
// flags. Flags given on the command line win over both.
func ApplyConfig(flags *Flags) {
	setString := func(key string, dst *string) {
		if viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}
	setInt := func(key string, dst *int) {
		if viper.IsSet(key) {
			*dst = viper.GetInt(key)
		}
	}
	setFloat := func(key string, dst *float64) {
		if viper.IsSet(key) {
			*dst = viper.GetFloat64(key)
		}
	}

	setString("output.file", &flags.OutputFile)
	setString("translation.source_lang", &flags.SourceLang)
	setString("translation.target_lang", &flags.TargetLang)
	setString("translation.provider", &flags.Translator)
	setString("translation.openai_model", &flags.TranslationModel)
	setString("translation.mymemory_email", &flags.MyMemoryEmail)
	setString("caption.provider", &flags.CaptionProvider)
	setString("caption.model", &flags.CaptionModel)
	setInt("caption.max_length", &flags.MaxLength)
	setInt("caption.min_length", &flags.MinLength)
	setInt("caption.num_beams", &flags.NumBeams)
	setFloat("caption.length_penalty", &flags.LengthPenalty)
	setString("audio.provider", &flags.TTSProvider)
	setString("audio.fallback", &flags.TTSFallback)
	setString("audio.openai_model", &flags.OpenAIModel)
	setString("audio.openai_voice", &flags.OpenAIVoice)
	setFloat("audio.openai_speed", &flags.OpenAISpeed)
	setString("audio.openai_instruction", &flags.OpenAIInstruction)
	setString("log.level", &flags.LogLevel)
}

// InitConfig initializes viper configuration. A .env file in the working
// directory is loaded first so its variables count as environment.
func InitConfig(cfgFile string) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Failed to load .env file: %v", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".imgspeak" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".imgspeak")
	}

	// Environment variables
	viper.SetEnvPrefix("IMGSPEAK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		log.Infof("Using config file: %s", viper.ConfigFileUsed())
	}
}

// GetHuggingFaceToken retrieves the Hugging Face token from environment or config
func GetHuggingFaceToken() string {
	// First check environment variable
	if token := os.Getenv("HUGGING_FACE_TOKEN"); token != "" {
		return token
	}

	// Then check config file
	return viper.GetString("auth.huggingface_token")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("openai.api_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("gemini.api_key")
}
