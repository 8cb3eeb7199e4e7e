// Package ledger tracks consumed nonces.
package ledger

import (
	"math/big"

	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

var ErrNonceOutOfRange = interfaces.NewValidationError("nonce out of range")

// NonceLedger is a set of consumed nonces. Nonces are opaque and need not be
// sequential; once consumed a nonce stays consumed.
type NonceLedger struct {
	used    map[string]struct{}
	errUsed error
}

// NewNonceLedger returns an empty ledger reporting errUsed on replay.
func NewNonceLedger(errUsed error) *NonceLedger {
	return &NonceLedger{
		used:    make(map[string]struct{}),
		errUsed: errUsed,
	}
}

// Consume marks nonce as used, failing if it already was.
func (l *NonceLedger) Consume(c *chain.Call, nonce *big.Int) error {
	if err := l.Check(nonce); err != nil {
		return err
	}
	key := nonce.String()
	l.used[key] = struct{}{}
	c.OnRevert(func() { delete(l.used, key) })
	return nil
}

// Check fails if nonce is malformed or already consumed.
func (l *NonceLedger) Check(nonce *big.Int) error {
	if !interfaces.IsUint(nonce, 256) {
		return ErrNonceOutOfRange
	}
	if l.IsUsed(nonce) {
		return l.errUsed
	}
	return nil
}

func (l *NonceLedger) IsUsed(nonce *big.Int) bool {
	if nonce == nil {
		return false
	}
	_, found := l.used[nonce.String()]
	return found
}

func (l *NonceLedger) Len() int {
	return len(l.used)
}
