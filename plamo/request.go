package plamo

// completionRequest is the body of POST {base}/completions.
// Temperature and MaxTokens are always sent, even when zero.
type completionRequest struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	Temperature float64  `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	Stop        []string `json:"stop"`
	TopP        *float64 `json:"top_p,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
}

func newCompletionRequest(model, prompt string, params GenerationParams, stopToken string) completionRequest {
	return completionRequest{
		Model:       model,
		Prompt:      prompt,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
		Stop:        []string{stopToken},
		TopP:        params.TopP,
		TopK:        params.TopK,
	}
}
