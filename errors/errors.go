package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the machine-readable error kind carried in error bodies.
type Kind string

const (
	// KindValidation marks caller input that is missing or malformed.
	KindValidation Kind = "ValidationError"
	// KindInternal marks every other failure.
	KindInternal Kind = "InternalError"
)

// Sentinel errors for common error conditions
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrValidation indicates that caller input validation failed
	ErrValidation = errors.New("validation failed")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrMissingConfig indicates required configuration is absent
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrRetrieval indicates the document collection listing failed
	ErrRetrieval = errors.New("corpus retrieval failed")

	// ErrClassification indicates the LLM classification call or its JSON failed
	ErrClassification = errors.New("query classification failed")

	// ErrPlanning indicates the LLM task-planning call or its JSON failed
	ErrPlanning = errors.New("task planning failed")

	// ErrAgentInvocation indicates a single agent call failed or returned non-success
	ErrAgentInvocation = errors.New("agent invocation failed")

	// ErrThrottled indicates the LLM backend rejected the call for rate reasons
	ErrThrottled = errors.New("llm request throttled")
)

// Error is a classified failure that can be rendered as an error body.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	if e.Kind == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Validation builds a 400-class error with the given human message.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: ErrValidation}
}

// Internal wraps err as a 500-class error keeping its message.
func Internal(err error) *Error {
	if err == nil {
		err = ErrInternal
	}
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// MissingConfig reports every missing variable name in one error.
func MissingConfig(names ...string) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: "Missing required environment variables: " + strings.Join(names, ", "),
		Err:     ErrMissingConfig,
	}
}

// KindOf classifies any error. Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrValidation) {
		return KindValidation
	}
	return KindInternal
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	if KindOf(err) == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// MessageOf returns the human message for err.
func MessageOf(err error) string {
	if err == nil {
		return "Internal server error"
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// Throttled reports that an LLM backend rejected a call for rate reasons.
func Throttled(backend string, cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: backend + " rate limit exceeded. Please retry after a moment.",
		Err:     fmt.Errorf("%w: %v", ErrThrottled, cause),
	}
}

// InvalidModelRequest reports that an LLM backend rejected the call
// parameters. It is an internal error: the caller's input was accepted.
func InvalidModelRequest(backend string, cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: "Invalid request parameters for " + backend + " model.",
		Err:     cause,
	}
}

// ModelFailure wraps any other LLM backend failure.
func ModelFailure(backend string, cause error) *Error {
	return Internal(fmt.Errorf("%s invocation failed: %w", backend, cause))
}

// FromModelStatus maps an LLM backend HTTP status to the matching error.
func FromModelStatus(backend string, status int, cause error) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	switch {
	case status == http.StatusTooManyRequests || strings.Contains(msg, "ThrottlingException"):
		return Throttled(backend, cause)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || strings.Contains(msg, "ValidationException"):
		return InvalidModelRequest(backend, cause)
	}
	return ModelFailure(backend, cause)
}
