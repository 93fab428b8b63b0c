package uid

import "github.com/google/uuid"

// New generates a new unique identifier.
func New() string {
	return uuid.New().String()
}

// Parse validates and parses a resource identifier from a URL segment.
func Parse(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// IsValid checks if a string is a valid UUID.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
