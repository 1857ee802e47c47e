// Package plamo translates text with the plamo-2-translate model served
// behind an OpenAI-compatible completions API such as LM Studio's local
// server.
//
// The package-level functions are one-shot helpers; build a Client with
// NewClient to reuse a connection across calls.
package plamo

import "context"

// Options configures the package-level helpers. Translator and Config are
// mutually exclusive; with neither set a Client is built from the defaults on
// every call. A nil Params means DefaultParams.
type Options struct {
	Translator    *Client
	Config        *Config
	ClientOptions []Option
	Params        *GenerationParams
}

func (o Options) client() (*Client, error) {
	if o.Translator != nil {
		if o.Config != nil || len(o.ClientOptions) > 0 {
			return nil, &ConfigurationError{Field: "options", Reason: "translator and client configuration are mutually exclusive"}
		}
		return o.Translator, nil
	}

	return NewClient(o.Config, o.ClientOptions...)
}

func (o Options) params() GenerationParams {
	if o.Params == nil {
		return DefaultParams()
	}
	return *o.Params
}

func Translate(ctx context.Context, text, srcLang, tgtLang string, opts Options) (string, error) {
	c, err := opts.client()
	if err != nil {
		return "", err
	}

	return c.Translate(ctx, text, srcLang, tgtLang, opts.params())
}

func EnToJa(ctx context.Context, text string, opts Options) (string, error) {
	return Translate(ctx, text, LangEnglish, LangJapanese, opts)
}

func JaToEn(ctx context.Context, text string, opts Options) (string, error) {
	return Translate(ctx, text, LangJapanese, LangEnglish, opts)
}

func TranslateBidirectional(ctx context.Context, textLang, text string, opts Options) (string, error) {
	src, tgt, err := ResolveLangPair(textLang)
	if err != nil {
		return "", err
	}

	return Translate(ctx, text, src, tgt, opts)
}
