package audio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"codeberg.org/snonux/imgspeak/internal/log"
)

const (
	// DefaultGTTSEndpoint is the Google Translate RPC endpoint
	DefaultGTTSEndpoint = "https://translate.google.com/_/TranslateWebserverUi/data/batchexecute"

	// MaxChunkChars is the longest text Google Translate speaks per request
	MaxChunkChars = 100

	gttsRPC       = "jQ1olc"
	gttsUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// gttsAudio extracts the base64 MP3 from a batchexecute response line
var gttsAudio = regexp.MustCompile(`jQ1olc","\[\\"(.*?)\\"]`)

// gttsLanguages are the voices offered by Google Translate
var gttsLanguages = map[string]string{
	"af": "Afrikaans", "am": "Amharic", "ar": "Arabic", "bg": "Bulgarian",
	"bn": "Bengali", "bs": "Bosnian", "ca": "Catalan", "cs": "Czech",
	"cy": "Welsh", "da": "Danish", "de": "German", "el": "Greek",
	"en": "English", "es": "Spanish", "et": "Estonian", "eu": "Basque",
	"fi": "Finnish", "fr": "French", "fr-ca": "French (Canada)", "gl": "Galician",
	"gu": "Gujarati", "ha": "Hausa", "hi": "Hindi", "hr": "Croatian",
	"hu": "Hungarian", "id": "Indonesian", "is": "Icelandic", "it": "Italian",
	"iw": "Hebrew", "he": "Hebrew", "ja": "Japanese", "jw": "Javanese",
	"km": "Khmer", "kn": "Kannada", "ko": "Korean", "la": "Latin",
	"lt": "Lithuanian", "lv": "Latvian", "ml": "Malayalam", "mr": "Marathi",
	"ms": "Malay", "my": "Myanmar (Burmese)", "ne": "Nepali", "nl": "Dutch",
	"no": "Norwegian", "pa": "Punjabi", "pl": "Polish", "pt": "Portuguese (Brazil)",
	"pt-pt": "Portuguese (Portugal)", "ro": "Romanian", "ru": "Russian", "si": "Sinhala",
	"sk": "Slovak", "sq": "Albanian", "sr": "Serbian", "su": "Sundanese",
	"sv": "Swedish", "sw": "Swahili", "ta": "Tamil", "te": "Telugu",
	"th": "Thai", "tl": "Filipino", "tr": "Turkish", "uk": "Ukrainian",
	"ur": "Urdu", "vi": "Vietnamese", "yue": "Cantonese", "zh": "Chinese (Mandarin)",
	"zh-cn": "Chinese (Simplified)", "zh-tw": "Chinese (Traditional)",
}

// GTTSProvider speaks text with the Google Translate voice, the same
// service the gTTS library uses. It needs no credentials.
type GTTSProvider struct {
	endpoint string
	client   *http.Client
}

// NewGTTSProvider creates a Google Translate TTS provider
func NewGTTSProvider(config *Config) *GTTSProvider {
	endpoint := config.GTTSEndpoint
	if endpoint == "" {
		endpoint = DefaultGTTSEndpoint
	}
	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &GTTSProvider{endpoint: endpoint, client: client}
}

// Name returns the provider name
func (p *GTTSProvider) Name() string {
	return "gtts"
}

// IsAvailable always succeeds, the service is anonymous
func (p *GTTSProvider) IsAvailable() error {
	return nil
}

// SupportsLanguage reports whether Google Translate has a voice for lang
func (p *GTTSProvider) SupportsLanguage(lang string) bool {
	_, ok := gttsLanguages[strings.ToLower(lang)]
	return ok
}

// GenerateAudio fetches one MP3 segment per chunk and concatenates them
// into outputFile. Nothing is written unless every chunk succeeded.
func (p *GTTSProvider) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	if !p.SupportsLanguage(lang) {
		return fmt.Errorf("language not supported by gtts: %s", lang)
	}

	chunks := SplitText(text, MaxChunkChars)
	if len(chunks) == 0 {
		return fmt.Errorf("text cannot be empty")
	}

	var audio bytes.Buffer
	for i, chunk := range chunks {
		log.Debugf("gtts: chunk %d/%d (%d chars)", i+1, len(chunks), utf8.RuneCountInString(chunk))
		data, err := p.fetchChunk(ctx, chunk, lang)
		if err != nil {
			return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		audio.Write(data)
	}

	if err := os.WriteFile(outputFile, audio.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}

func (p *GTTSProvider) fetchChunk(ctx context.Context, chunk, lang string) ([]byte, error) {
	body, err := gttsRequestBody(chunk, lang)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	req.Header.Set("Referer", "http://translate.google.com/")
	req.Header.Set("User-Agent", gttsUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gtts request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gtts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gtts API error: HTTP %d", resp.StatusCode)
	}

	for _, line := range strings.Split(string(raw), "\n") {
		if !strings.Contains(line, gttsRPC) {
			continue
		}
		m := gttsAudio.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(m[1])
		if err != nil {
			return nil, fmt.Errorf("failed to decode gtts audio: %w", err)
		}
		if len(data) > 0 {
			return data, nil
		}
	}
	return nil, fmt.Errorf("no audio data received from gtts")
}

// gttsRequestBody builds the f.req form value of the batchexecute call
func gttsRequestBody(text, lang string) (string, error) {
	params, err := json.Marshal([]interface{}{text, lang, nil, "null"})
	if err != nil {
		return "", err
	}
	rpc, err := json.Marshal([]interface{}{[]interface{}{[]interface{}{gttsRPC, string(params), nil, "generic"}}})
	if err != nil {
		return "", err
	}
	return "f.req=" + url.QueryEscape(string(rpc)) + "&", nil
}

// SplitText breaks text into chunks of at most maxChars runes. Chunks end
// after sentence punctuation when possible, then at whitespace; words
// longer than maxChars are cut.
func SplitText(text string, maxChars int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
		currentLen = 0
	}

	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > maxChars {
			flush()
			runes := []rune(word)
			chunks = append(chunks, string(runes[:maxChars]))
			word = string(runes[maxChars:])
		}

		wordLen := utf8.RuneCountInString(word)
		if currentLen > 0 && currentLen+1+wordLen > maxChars {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen

		if endsSentence(word) && currentLen > maxChars/2 {
			flush()
		}
	}
	flush()

	return chunks
}

func endsSentence(word string) bool {
	r, _ := utf8.DecodeLastRuneInString(word)
	return r == '.' || r == '!' || r == '?' || r == ';' || r == ':' || unicode.Is(unicode.Sentence_Terminal, r)
}
