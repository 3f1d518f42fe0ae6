package models

import "time"

// NoticeKind classifies user-facing feedback.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeWarning NoticeKind = "warning"
)

// Notice is one piece of user-facing feedback.
type Notice struct {
	Message string     `json:"message"`
	Kind    NoticeKind `json:"kind"`
	// Duration is how long the page should keep the notice visible.
	// Zero means the surface's default.
	Duration time.Duration `json:"duration,omitempty"`
}

// Notifier is the user-facing feedback surface.
type Notifier interface {
	Notify(notice Notice)
}
