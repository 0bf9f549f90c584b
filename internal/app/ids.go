package app

import "github.com/google/uuid"

// NewID returns an opaque identifier for sessions and messages. IDs are
// generated locally; the backend never assigns them for outbound turns.
func NewID() string {
	return uuid.NewString()
}
