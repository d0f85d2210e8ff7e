package notification

import (
	"errors"
	"strings"
	"time"
)

// TypeBroadcast is the only notification type: visible to every member.
const TypeBroadcast = "broadcast"

// Domain errors
var (
	ErrEmptyTitle   = errors.New("notification title cannot be empty")
	ErrEmptyMessage = errors.New("notification message cannot be empty")
	ErrInvalidType  = errors.New("notification type must be broadcast")
)

// Notification is a message shown to all members. Message supports Markdown.
// There is no per-member read state.
type Notification struct {
	ID      string
	Title   string
	Message string
	Date    time.Time
	Type    string
}

// Validate checks if the Notification has valid data.
// PRE: Notification struct is populated
// POST: Returns nil if valid, error otherwise
func (n *Notification) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(n.Message) == "" {
		return ErrEmptyMessage
	}
	if n.Type != TypeBroadcast {
		return ErrInvalidType
	}
	return nil
}
