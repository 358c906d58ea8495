// Package caption turns a decoded image into a short English description
// using a pretrained vision-language model. The model is reached through one
// of several hosted backends (Hugging Face inference, OpenAI, Gemini); the
// Generator built by New is meant to be created once and reused.
package caption
