package document

import (
	"github.com/google/uuid"
)

const (
	groupPrefix = "g-"
	notePrefix  = "n-"
)

// IDGenerator returns a new identifier beginning with prefix.
type IDGenerator func(prefix string) string

// NewUUIDv7 generates ids from time-ordered UUIDs. Two calls in the same
// millisecond still differ, so rapid successive creations never collide.
func NewUUIDv7(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		id = uuid.New()
	}
	return prefix + id.String()
}
