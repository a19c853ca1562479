// Package guid provides unique identifiers
package guid

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// MustCreate returns a new random UUID in the canonical form,
// 36 characters long. It panics if the random source fails.
func MustCreate() string {
	return uuid.New().String()
}

// MustCreateHex returns a new random UUID as 32 hex characters,
// without dashes. It panics if the random source fails.
func MustCreateHex() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
