package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"SourceLang", flags.SourceLang, "en"},
		{"TargetLang", flags.TargetLang, "pt"},
		{"LogLevel", flags.LogLevel, "info"},
		{"CaptionProvider", flags.CaptionProvider, "huggingface"},
		{"MaxLength", flags.MaxLength, 30},
		{"MinLength", flags.MinLength, 5},
		{"NumBeams", flags.NumBeams, 3},
		{"LengthPenalty", flags.LengthPenalty, 1.0},
		{"Translator", flags.Translator, "mymemory"},
		{"TTSProvider", flags.TTSProvider, "gtts"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini-tts"},
		{"OpenAIVoice", flags.OpenAIVoice, "alloy"},
		{"OpenAISpeed", flags.OpenAISpeed, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Archive", flags.Archive},
		{"ListModels", flags.ListModels},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != false {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"OutputFile", flags.OutputFile},
		{"CaptionModel", flags.CaptionModel},
		{"TranslationModel", flags.TranslationModel},
		{"MyMemoryEmail", flags.MyMemoryEmail},
		{"TTSFallback", flags.TTSFallback},
		{"OpenAIInstruction", flags.OpenAIInstruction},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %v, want empty string", tt.name, tt.value)
			}
		})
	}
}

func TestFlagsStructure(t *testing.T) {
	// Test that Flags struct has all expected fields
	flags := &Flags{}
	flagsType := reflect.TypeOf(*flags)

	expectedFields := []string{
		"CfgFile", "OutputFile", "SourceLang", "TargetLang", "Archive", "ListModels", "LogLevel",
		"CaptionProvider", "CaptionModel", "MaxLength", "MinLength", "NumBeams", "LengthPenalty",
		"Translator", "TranslationModel", "MyMemoryEmail",
		"TTSProvider", "TTSFallback",
		"OpenAIModel", "OpenAIVoice", "OpenAISpeed", "OpenAIInstruction",
	}

	for _, fieldName := range expectedFields {
		t.Run("has_field_"+fieldName, func(t *testing.T) {
			if _, ok := flagsType.FieldByName(fieldName); !ok {
				t.Errorf("Flags struct missing field: %s", fieldName)
			}
		})
	}
}
