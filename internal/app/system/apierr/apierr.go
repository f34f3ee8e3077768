// internal/app/system/apierr/apierr.go

// Package apierr defines the error taxonomy every handler maps onto HTTP
// status codes. Stores return sentinel errors or mongo errors; features wrap
// them with a kind here; the JSON layer renders the uniform envelope.
package apierr

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
)

// Kind classifies an error for status-code mapping.
type Kind int

const (
	// Invalid is a malformed id or out-of-range field (400).
	Invalid Kind = iota + 1
	// NotFound means a referenced document is absent (404).
	NotFound
	// Unauthorized means no valid principal (401).
	Unauthorized
	// Forbidden means a role/ownership check failed (403).
	Forbidden
	// Conflict is a business-rule violation such as "capacity full" or
	// "already a member". Rendered as 400, matching the public contract.
	Conflict
	// Internal is an unexpected failure; the message is never exposed (500).
	Internal
)

// Error carries a kind, a caller-visible message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an error of the given kind.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain. Unclassified errors are
// Internal; mongo.ErrNoDocuments is treated as NotFound so stores can
// return it unwrapped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound
	}
	return Internal
}

// StatusCode maps a kind to its HTTP status.
func StatusCode(kind Kind) int {
	switch kind {
	case Invalid, Conflict:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show callers. Internal errors
// (including unclassified ones) get an opaque message.
func PublicMessage(err error) string {
	if KindOf(err) == Internal {
		return "internal server error"
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "not found"
	}
	return "internal server error"
}
