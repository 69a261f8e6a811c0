package store

import "github.com/google/uuid"

// newTaskID returns a random (v4) UUID string.
func newTaskID() string {
	return uuid.NewString()
}
