package xid

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a time-ordered identifier. UUIDv7 carries a millisecond
// timestamp plus random bits, so ids created in the same tick stay distinct.
func New(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
	}
	return fmt.Sprintf("%s-%s", prefix, id.String())
}
