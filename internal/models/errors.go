package models

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationKind identifies a local, pre-network validation failure.
type ValidationKind string

const (
	ValidationEmptyInput   ValidationKind = "empty_input"
	ValidationInvalidEmail ValidationKind = "invalid_email"
	ValidationInvalidPhone ValidationKind = "invalid_phone"
)

// ValidationError is a local input rejection. It never reaches the remote.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RemoteRejection means the server responded but declined the operation,
// possibly carrying field-level detail.
type RemoteRejection struct {
	// Message is the general rejection reason, if any.
	Message string
	// Fields maps field names to field-level rejection messages.
	Fields map[string]string
}

func (e *RemoteRejection) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "request rejected by the server"
}

// UserMessage builds the user-facing rejection text: all non-empty
// field-level messages concatenated (in stable order), the general message,
// or the given fallback.
func (e *RemoteRejection) UserMessage(fallback string) string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if msg := strings.TrimSpace(e.Fields[k]); msg != "" {
				parts = append(parts, msg)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// TransportError means no usable response was obtained from the remote.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
