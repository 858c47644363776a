package metrics

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

var encoders sync.Map // model -> *tiktoken.Tiktoken

// EstimatePromptTokens counts prompt tokens with the model's BPE encoding.
// When no encoding can be loaded it falls back to a rune based estimate.
func EstimatePromptTokens(model, text string) int {
	if text == "" {
		return 0
	}
	enc := encoderFor(model)
	if enc == nil {
		return roughTokens(text)
	}
	return len(enc.Encode(text, nil, nil))
}

func encoderFor(model string) *tiktoken.Tiktoken {
	key := strings.TrimSpace(model)
	if cached, ok := encoders.Load(key); ok {
		return cached.(*tiktoken.Tiktoken)
	}
	enc, err := tiktoken.EncodingForModel(key)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil
		}
	}
	encoders.Store(key, enc)
	return enc
}

// roughTokens is upper-biased: ~1 token per 2 runes and never below word count.
func roughTokens(text string) int {
	runes := utf8.RuneCountInString(text)
	words := len(strings.Fields(text))
	byRunes := (runes + 1) / 2
	if byRunes < words {
		return words
	}
	return byRunes
}
