package registry

import (
	"bytes"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/chain"
)

// SignerSet is emitted whenever registration of a signer changes.
type SignerSet struct {
	Signer  common.Address `json:"signer"`
	Allowed bool           `json:"allowed"`
}

// SignerRegistry is an address to bool set. Absent addresses are not signers.
type SignerRegistry struct {
	signers map[common.Address]bool
}

func NewSignerRegistry(initial []common.Address) *SignerRegistry {
	r := &SignerRegistry{signers: make(map[common.Address]bool, len(initial))}
	for _, s := range initial {
		r.signers[s] = true
	}
	return r
}

// Set registers or deregisters signer. Callers enforce authorization.
func (r *SignerRegistry) Set(c *chain.Call, signer common.Address, allowed bool) {
	prev, existed := r.signers[signer]
	if allowed {
		r.signers[signer] = true
	} else {
		delete(r.signers, signer)
	}
	c.OnRevert(func() {
		if existed {
			r.signers[signer] = prev
		} else {
			delete(r.signers, signer)
		}
	})
	c.Emit("SignerSet", SignerSet{Signer: signer, Allowed: allowed})
}

func (r *SignerRegistry) IsSigner(addr common.Address) bool {
	return r.signers[addr]
}

// Signers lists registered addresses in ascending order.
func (r *SignerRegistry) Signers() []common.Address {
	out := make([]common.Address, 0, len(r.signers))
	for s, ok := range r.signers {
		if ok {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b common.Address) int { return bytes.Compare(a[:], b[:]) })
	return out
}
