// Package apperrors implements the caller-visible error-kind taxonomy and the
// internal pipeline reason tags, generalized from the teacher's
// pkg/utils/errors.go CustomError pattern.
package apperrors

import (
	"fmt"
	"net/http"
)

// Kind is one of the caller-visible error kinds.
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindUnauthenticated Kind = "unauthenticated"
	KindRateLimited     Kind = "rate_limited"
	KindNotFound        Kind = "not_found"
	KindInternal        Kind = "internal"
)

// StatusCode maps an error kind to its HTTP status.
func (k Kind) StatusCode() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the uniform application error type; Detail carries internal
// diagnostic text that is logged but never sent verbatim to kind=internal callers.
type AppError struct {
	Kind    Kind   `json:"-"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// PublicMessage returns what may be sent to the caller: for internal errors
// this is always the opaque message, never Detail.
func (e *AppError) PublicMessage() string {
	if e.Kind == KindInternal {
		return "internal error"
	}
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

func NewInvalidInputError(field, reason string) *AppError {
	return &AppError{Kind: KindInvalidInput, Message: "invalid input", Detail: fmt.Sprintf("%s: %s", field, reason)}
}

func NewUnauthenticatedError(reason string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: "unauthenticated", Detail: reason}
}

func NewRateLimitedError(retryAfterHint string) *AppError {
	return &AppError{Kind: KindRateLimited, Message: "rate limited", Detail: retryAfterHint}
}

func NewNotFoundError() *AppError {
	return &AppError{Kind: KindNotFound, Message: "not found"}
}

func NewInternalError(detail string) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal error", Detail: detail}
}

// Pipeline-internal reason tags (§7): machine-readable, never a stack trace.
const (
	ReasonClosed        = "closed"
	ReasonReposted       = "reposted"
	ReasonRateLimited    = "rate_limit_exceeded"
	ReasonTimeout        = "timeout"
	ReasonScrapeFailed   = "Scrape failed"
)

// ReasonTooManyApplicants formats the too_many_applicants:N tag.
func ReasonTooManyApplicants(n int) string {
	return fmt.Sprintf("too_many_applicants:%d", n)
}

// ReasonTooOld formats the too_old:Nh tag.
func ReasonTooOld(hours int) string {
	return fmt.Sprintf("too_old:%dh", hours)
}

// ReasonHTTPStatus formats the http_<code> tag.
func ReasonHTTPStatus(code int) string {
	return fmt.Sprintf("http_%d", code)
}

// ReasonError formats the error:<=30 chars tag, truncating as needed.
func ReasonError(err error) string {
	s := err.Error()
	if len(s) > 30 {
		s = s[:30]
	}
	return "error:" + s
}
