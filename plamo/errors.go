package plamo

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Sentinels for errors.Is. Every error returned by this package matches
// exactly one of them.
var (
	ErrConfiguration   = errors.New("plamo: configuration error")
	ErrTransport       = errors.New("plamo: transport error")
	ErrProtocol        = errors.New("plamo: protocol error")
	ErrInvalidArgument = errors.New("plamo: invalid argument")
)

// ConfigurationError reports invalid client construction parameters.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s", e.Field)
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *ConfigurationError) Unwrap() error        { return e.Err }
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// TransportError covers network failures, timeouts and non-2xx responses.
// StatusCode is zero when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		msg := fmt.Sprintf("POST %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
		if e.Body != "" {
			msg += ": " + e.Body
		}
		return msg
	}

	return fmt.Sprintf("POST %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ProtocolError reports a response body that is not a completions payload.
type ProtocolError struct {
	URL string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("POST %s: malformed completions response: %v", e.URL, e.Err)
}

func (e *ProtocolError) Unwrap() error        { return e.Err }
func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }

type InvalidArgumentError struct {
	Name    string
	Value   string
	Allowed []string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s must be one of [%s], got %q", e.Name, strings.Join(e.Allowed, ", "), e.Value)
}

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }
