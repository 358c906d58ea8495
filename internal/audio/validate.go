package audio

import (
	"fmt"
	"regexp"
	"strings"
)

// languageTag matches ISO 639 codes with an optional region, e.g. "pt" or "zh-CN"
var languageTag = regexp.MustCompile(`^[A-Za-z]{2,3}(-[A-Za-z0-9]{2,4})?$`)

// ValidateText checks that text can be spoken in lang
func ValidateText(text, lang string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if !languageTag.MatchString(lang) {
		return fmt.Errorf("invalid language code %q", lang)
	}

	return nil
}
