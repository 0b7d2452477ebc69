package utils

import "github.com/google/uuid"

// NewRequestID returns a random correlation id for request logs.
func NewRequestID() string {
	return uuid.NewString()
}
