package interfaces

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrContentNotFound    = errors.New("content not found")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
	ErrInvalidLocationURI = errors.New("invalid storage location URI")
	ErrContentIDMismatch  = errors.New("content does not hash to its identifier")
)

// ContentID is the SHA-256 of stored content.
type ContentID [32]byte

func (id ContentID) String() string {
	return hex.EncodeToString(id[:])
}

func ParseContentID(s string) (ContentID, error) {
	var id ContentID
	raw, err := hex.DecodeString(trimHexPrefix(s))
	if err != nil {
		return id, fmt.Errorf("invalid content id: %w", err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("invalid content id: expected %d bytes, got %d", len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// StorageBackend is a content-addressed blob store.
type StorageBackend interface {
	Fetch(ctx context.Context, id ContentID) ([]byte, error)
	Store(ctx context.Context, data []byte) (ContentID, error)
	Available(ctx context.Context) bool
	Name() string
	LocationURI() string
}
