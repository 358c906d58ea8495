package testutil

import (
	"context"
	"fmt"
	"os"
)

// MockTranslator mocks translation service
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error
	Calls        []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	call := fmt.Sprintf("Translate: %s (%s->%s)", text, fromLang, toLang)
	m.Calls = append(m.Calls, call)

	if err, ok := m.Errors[text]; ok {
		return "", err
	}

	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}

	// Default mock translation
	return fmt.Sprintf("mock translation of %s", text), nil
}

// MockSpeechProvider mocks a text-to-speech provider. On success it writes
// Audio (or GenerateAudioData) to the requested file.
type MockSpeechProvider struct {
	Audio       []byte
	GenerateErr error
	Calls       []string
}

// GenerateAudio mocks speech synthesis
func (m *MockSpeechProvider) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	m.Calls = append(m.Calls, fmt.Sprintf("TTS: %s (%s)", text, lang))

	if m.GenerateErr != nil {
		return m.GenerateErr
	}

	data := m.Audio
	if data == nil {
		data = GenerateAudioData()
	}
	return os.WriteFile(outputFile, data, 0644)
}

// Name returns the provider name
func (m *MockSpeechProvider) Name() string {
	return "mock"
}

// IsAvailable always reports the mock as available
func (m *MockSpeechProvider) IsAvailable() error {
	return nil
}
