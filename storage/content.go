package storage

import (
	"crypto/sha256"
	"fmt"

	"github.com/ruteri/asset-custody-bridge/interfaces"
)

// ContentIDOf returns the identifier data is stored under.
func ContentIDOf(data []byte) interfaces.ContentID {
	return interfaces.ContentID(sha256.Sum256(data))
}

// verifyContent rejects fetched data that does not hash to id.
func verifyContent(id interfaces.ContentID, data []byte) error {
	if got := ContentIDOf(data); got != id {
		return fmt.Errorf("%w: want %s, got %s", interfaces.ErrContentIDMismatch, id, got)
	}
	return nil
}
