package models

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Categories groups model IDs by the pipeline stage they can serve
type Categories struct {
	Vision []string // --caption-provider openai
	Chat   []string // --translator openai
	TTS    []string // --tts-provider openai
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
	out    io.Writer
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return NewListerWithConfig(apiKey, "", os.Stdout)
}

// NewListerWithConfig creates a lister against a custom API base URL that
// prints to out
func NewListerWithConfig(apiKey, baseURL string, out io.Writer) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
		out:    out,
	}
}

// Categorize sorts model IDs into the groups imgspeak can use. Models that
// fit no group are dropped.
func Categorize(ids []string) Categories {
	var c Categories
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts"):
			c.TTS = append(c.TTS, id)
		case strings.Contains(id, "audio") || strings.Contains(id, "realtime") ||
			strings.Contains(id, "transcribe") || strings.Contains(id, "search"):
			// Not usable for any stage
		case strings.HasPrefix(id, "gpt-4o") || strings.HasPrefix(id, "gpt-4.1") ||
			strings.HasPrefix(id, "gpt-5") || strings.Contains(id, "vision") ||
			strings.HasPrefix(id, "gpt-4-turbo"):
			c.Vision = append(c.Vision, id)
			c.Chat = append(c.Chat, id)
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		}
	}

	sort.Strings(c.Vision)
	sort.Strings(c.Chat)
	sort.Strings(c.TTS)
	return c
}

// ListAvailableModels lists all available OpenAI models categorized by type
func (l *Lister) ListAvailableModels(ctx context.Context) error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .imgspeak.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	c := Categorize(ids)

	fmt.Fprintln(l.out, "Available OpenAI Models:")
	l.printGroup("Vision Models (for --caption-provider openai):", c.Vision)
	l.printGroup("Chat/Translation Models (for --translator openai):", c.Chat)
	l.printGroup("Text-to-Speech (TTS) Models (for --tts-provider openai):", c.TTS)

	return nil
}

func (l *Lister) printGroup(title string, ids []string) {
	fmt.Fprintf(l.out, "\n%s\n", title)
	if len(ids) == 0 {
		fmt.Fprintln(l.out, "  No models found")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(l.out, "  %s\n", id)
	}
}
