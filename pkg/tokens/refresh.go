package tokens

import (
	"time"

	"github.com/google/uuid"
)

// NewRefreshToken returns an opaque token value and its expiry.
func NewRefreshToken(now time.Time, ttl time.Duration) (string, time.Time) {
	return uuid.NewString(), now.UTC().Add(ttl)
}
