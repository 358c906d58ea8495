package internal

import (
	"fmt"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// DefaultOutputFile returns the audio file name used when no --output is
// given, e.g. "description_pt.mp3" for Portuguese.
func DefaultOutputFile(targetLang string) string {
	lang := SanitizeFilename(targetLang)
	if lang == "" {
		lang = "audio"
	}
	return fmt.Sprintf("description_%s.mp3", lang)
}

// GenerateRunID creates a short unique ID for a pipeline run.
// Format: epochMillis_uuid[:8]
func GenerateRunID() string {
	epochMillis := time.Now().UnixNano() / 1000000
	return fmt.Sprintf("%d_%s", epochMillis, uuid.NewString()[:8])
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}

func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
