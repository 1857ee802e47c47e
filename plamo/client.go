package plamo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	completionsPath = "/completions"

	// Cap on how much of a response body is read and how much of an error
	// body is echoed back in a TransportError.
	maxResponseBytes = 4 << 20
	maxErrorBody     = 512
)

// Client talks to an OpenAI-compatible completions endpoint serving a
// plamo-2-translate model. Its configuration is fixed at construction, so a
// Client may be reused for any number of calls.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *log.Entry
	recorder   Recorder
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. The configured timeout is
// not applied to a caller-supplied client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithLogger(logger *log.Entry) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(c *Client) {
		if recorder != nil {
			c.recorder = recorder
		}
	}
}

// NewClient validates cfg and builds a Client. A nil cfg selects the
// defaults.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = NewConfig("", "", 0)
	}

	config, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     1 * time.Minute,
			},
		},
		logger:   log.NewEntry(log.StandardLogger()),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithField("model", config.Model)

	return c, nil
}

func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

func (c *Client) Model() string {
	return c.config.Model
}

func (c *Client) Timeout() time.Duration {
	return c.config.Timeout
}

// CallCompletions posts a raw prompt and returns choices[0].text untouched.
// An empty stopToken means StopMarker. Failures are never retried here.
func (c *Client) CallCompletions(ctx context.Context, prompt string, params GenerationParams, stopToken string) (string, error) {
	if stopToken == "" {
		stopToken = StopMarker
	}
	endpoint := c.config.BaseURL + completionsPath

	reqBody, err := json.Marshal(newCompletionRequest(c.config.Model, prompt, params, stopToken))
	if err != nil {
		return "", &ProtocolError{URL: endpoint, Err: errors.Wrap(err, "encoding request")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", &TransportError{URL: endpoint, Err: errors.Wrap(err, "building request")}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	text, finishReason, err := c.do(req)
	elapsed := time.Since(start)

	logger := c.logger.WithFields(log.Fields{
		"url":     endpoint,
		"elapsed": elapsed.String(),
	})
	if err != nil {
		var protoErr *ProtocolError
		if errors.As(err, &protoErr) {
			c.recorder.ObserveCompletion(OutcomeProtocolError, elapsed)
		} else {
			c.recorder.ObserveCompletion(OutcomeTransportError, elapsed)
		}
		logger.WithField("error", err.Error()).Debug("completions request failed")
		return "", err
	}

	c.recorder.ObserveCompletion(OutcomeOK, elapsed)
	logger.WithFields(log.Fields{
		"chars":         len(text),
		"finish_reason": finishReason,
	}).Debug("completions request done")

	return text, nil
}

func (c *Client) do(req *http.Request) (string, string, error) {
	endpoint := req.URL.String()

	rsp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", &TransportError{URL: endpoint, Err: errors.Wrap(err, "sending request")}
	}
	defer rsp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(rsp.Body, maxResponseBytes))
	if err != nil {
		return "", "", &TransportError{URL: endpoint, Err: errors.Wrap(err, "reading response body")}
	}

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		snippet := truncateUTF8(strings.TrimSpace(string(body)), maxErrorBody)
		return "", "", &TransportError{URL: endpoint, StatusCode: rsp.StatusCode, Body: snippet}
	}

	choice, err := parseCompletion(body)
	if err != nil {
		return "", "", &ProtocolError{URL: endpoint, Err: err}
	}

	return *choice.Text, choice.FinishReason, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
