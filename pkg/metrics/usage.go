package metrics

import (
	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// TokenUsage captures LLM token counts used to satisfy a request.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens,omitempty"`
	TotalTokens      int `json:"totalTokens"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// EstimatePromptTokens counts the tokens a prompt will consume for the given
// model. Used when the upstream response omits usage data.
func EstimatePromptTokens(model string, texts ...string) TokenUsage {
	encoder, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoder, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return TokenUsage{}
		}
	}
	total := 0
	for _, text := range texts {
		total += len(encoder.Encode(text, nil, nil))
	}
	return TokenUsage{PromptTokens: total, TotalTokens: total}
}
