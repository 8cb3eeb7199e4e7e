package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

var errArgType = interfaces.NewValidationError("calldata argument has unexpected type")

// Args reads the loosely typed values produced by abi unpacking. The first
// mismatch is kept in Err and later reads return zero values.
type Args struct {
	vals []any
	err  error
}

func NewArgs(vals []any) *Args {
	return &Args{vals: vals}
}

func (a *Args) Err() error { return a.err }

func argAs[T any](a *Args, i int) T {
	var zero T
	if a.err != nil {
		return zero
	}
	if i >= len(a.vals) {
		a.err = errArgType
		return zero
	}
	v, ok := a.vals[i].(T)
	if !ok {
		a.err = errArgType
		return zero
	}
	return v
}

func (a *Args) Address(i int) common.Address     { return argAs[common.Address](a, i) }
func (a *Args) Addresses(i int) []common.Address { return argAs[[]common.Address](a, i) }
func (a *Args) Big(i int) *big.Int               { return argAs[*big.Int](a, i) }
func (a *Args) Bigs(i int) []*big.Int            { return argAs[[]*big.Int](a, i) }
func (a *Args) BigMatrix(i int) [][]*big.Int     { return argAs[[][]*big.Int](a, i) }
func (a *Args) Bool(i int) bool                  { return argAs[bool](a, i) }
func (a *Args) Bytes(i int) []byte               { return argAs[[]byte](a, i) }
func (a *Args) String(i int) string              { return argAs[string](a, i) }
func (a *Args) Hash(i int) common.Hash           { return argAs[[32]byte](a, i) }

func (a *Args) Hashes(i int) []common.Hash {
	raw := argAs[[][32]byte](a, i)
	out := make([]common.Hash, len(raw))
	for j, h := range raw {
		out[j] = h
	}
	return out
}
