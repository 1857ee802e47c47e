package plamo

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Translate renders text into a translation prompt and returns the trimmed
// completion.
//
// If the first completion is empty or leaks a reserved token, Translate makes
// exactly one more request with relaxed sampling (see GenerationParams) and
// returns that result as is. Transport and protocol errors are returned
// without retrying.
func (c *Client) Translate(ctx context.Context, text, srcLang, tgtLang string, params GenerationParams) (string, error) {
	params = params.normalize()
	prompt := BuildPrompt(text, srcLang, tgtLang, true)

	out, err := c.CallCompletions(ctx, prompt, params, StopMarker)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)

	if !isAnomalous(out) {
		return out, nil
	}

	retry := params.relaxed()
	c.logger.WithFields(log.Fields{
		"src":         srcLang,
		"tgt":         tgtLang,
		"empty":       out == "",
		"temperature": retry.Temperature,
		"top_p":       *retry.TopP,
		"top_k":       *retry.TopK,
	}).Warn("anomalous completion, retrying with relaxed sampling")
	c.recorder.IncRetry()

	out, err = c.CallCompletions(ctx, prompt, retry, StopMarker)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

func (c *Client) EnToJa(ctx context.Context, text string, params GenerationParams) (string, error) {
	return c.Translate(ctx, text, LangEnglish, LangJapanese, params)
}

func (c *Client) JaToEn(ctx context.Context, text string, params GenerationParams) (string, error) {
	return c.Translate(ctx, text, LangJapanese, LangEnglish, params)
}

// TranslateBidirectional translates between Japanese and English, with the
// direction picked from the language alias of text (e.g. "ja", "EN").
func (c *Client) TranslateBidirectional(ctx context.Context, textLang, text string, params GenerationParams) (string, error) {
	src, tgt, err := ResolveLangPair(textLang)
	if err != nil {
		return "", err
	}

	return c.Translate(ctx, text, src, tgt, params)
}

// isAnomalous reports the known plamo failure output: nothing at all, or
// reserved placeholder tokens.
func isAnomalous(out string) bool {
	return out == "" || strings.Contains(out, ReservedMarker)
}
