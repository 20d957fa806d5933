package model

import "errors"

type NotificationKind string

const (
	KindReminder NotificationKind = "reminder"
	KindDeadline NotificationKind = "deadline"
	KindInfo     NotificationKind = "info"
)

type Notification struct {
	Title  string           `json:"title"`
	Body   string           `json:"body"`
	TaskID string           `json:"todoId,omitempty"`
	Kind   NotificationKind `json:"type"`
}

var ErrEmptyTitle = errors.New("task title must not be empty")
