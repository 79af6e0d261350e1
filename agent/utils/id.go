package utils

import (
	"github.com/google/uuid"
)

// UUID generates a new random identifier and returns the value as string.
func UUID() string {
	return uuid.New().String()
}
