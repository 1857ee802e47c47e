package plamo

const (
	defaultMaxTokens = 256

	relaxedMinTemperature = 0.2
	relaxedTopP           = 0.95
	relaxedTopK           = 50
)

// GenerationParams are the sampling settings forwarded to the completions
// endpoint. A nil TopP or TopK leaves the server default in place.
type GenerationParams struct {
	Temperature float64
	MaxTokens   int
	TopP        *float64
	TopK        *int
}

func DefaultParams() GenerationParams {
	return GenerationParams{
		Temperature: 0.0,
		MaxTokens:   defaultMaxTokens,
	}
}

func Float64(v float64) *float64 { return &v }

func Int(v int) *int { return &v }

func (p GenerationParams) normalize() GenerationParams {
	if p.MaxTokens <= 0 {
		p.MaxTokens = defaultMaxTokens
	}
	return p
}

// relaxed loosens sampling for the one retry after an anomalous completion.
// Explicitly set TopP/TopK are kept.
func (p GenerationParams) relaxed() GenerationParams {
	p.Temperature = max(relaxedMinTemperature, p.Temperature)
	if p.TopP == nil {
		p.TopP = Float64(relaxedTopP)
	}
	if p.TopK == nil {
		p.TopK = Int(relaxedTopK)
	}
	return p
}
