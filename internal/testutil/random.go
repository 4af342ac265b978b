package testutil

import (
	"fmt"

	"github.com/google/uuid"
)

// RandomEmail returns a unique email address for registration tests.
func RandomEmail() string {
	return fmt.Sprintf("user-%s@example.com", uuid.New().String()[:8])
}

// RandomName returns a unique name with the given prefix.
func RandomName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String()[:8])
}
