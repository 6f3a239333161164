package common

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts wall-clock reads so services and the token codec can be
// tested with frozen time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// NewID returns a fresh uuid string for entity identity.
func NewID() string {
	return uuid.New().String()
}
