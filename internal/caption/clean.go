package caption

import "strings"

// specialTokens are tokenizer control tokens that must not reach the caption
var specialTokens = []string{
	"[CLS]", "[SEP]", "[PAD]", "[UNK]", "[MASK]",
	"<s>", "</s>", "<pad>", "<unk>", "<|endoftext|>",
}

// CleanCaption strips special tokens, collapses whitespace and removes
// surrounding quotes from raw model output.
func CleanCaption(raw string) string {
	text := raw
	for _, tok := range specialTokens {
		text = strings.ReplaceAll(text, tok, " ")
	}

	text = strings.Join(strings.Fields(text), " ")
	text = strings.Trim(text, "\"'`")
	return strings.TrimSpace(text)
}
