package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New generates an event ID stamped with the current time.
func New() string { return NewAt(time.Now()) }

// NewAt generates an event ID stamped with t. IDs from one process sort in
// generation order even within the same millisecond.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
