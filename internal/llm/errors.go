package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies provider failures for the retry policy and callers.
type Kind int

const (
	// KindUnavailable covers network failures, 5xx responses and anything
	// the provider SDK could not classify.
	KindUnavailable Kind = iota
	// KindRateLimited is a 429 from the provider.
	KindRateLimited
	// KindInvalidResponse means the content did not match the schema.
	KindInvalidResponse
	// KindTruncated means the output hit MaxTokens.
	KindTruncated
	// KindRejected is a 4xx other than 429: bad key, bad model, bad request.
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate limited"
	case KindInvalidResponse:
		return "invalid response"
	case KindTruncated:
		return "truncated"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Error is returned by every provider.
type Error struct {
	Kind Kind

	// RetryAfter is the provider's requested wait for KindRateLimited.
	RetryAfter time.Duration

	// Content is the raw output for KindInvalidResponse and KindTruncated.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func newError(k Kind, err error) *Error {
	return &Error{Kind: k, Err: err}
}

func invalidResponse(content json.RawMessage, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidResponse, Content: content, Err: fmt.Errorf(format, args...)}
}

// fromStatus classifies an SDK error by its HTTP status. A zero status
// means the request never got an answer.
func fromStatus(status int, err error) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return newError(KindRateLimited, err)
	case status >= 500, status == 0:
		return newError(KindUnavailable, err)
	case status >= 400:
		return newError(KindRejected, err)
	default:
		return newError(KindUnavailable, err)
	}
}
