package interfaces

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

var (
	ErrInvalidAddress = errors.New("invalid address: hex string must be 40 characters")
	ErrInvalidUint256 = errors.New("invalid uint256")
)

// ParseAddress accepts a 40-character hex address with or without 0x prefix.
func ParseAddress(addr string) (common.Address, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X")
	if len(clean) != 40 {
		return common.Address{}, ErrInvalidAddress
	}
	raw, err := hexutil.Decode("0x" + clean)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid hex format: %w", err)
	}
	return common.BytesToAddress(raw), nil
}

// ParseUint256 parses a decimal or 0x-prefixed hex integer within [0, 2^256).
func ParseUint256(s string) (*big.Int, error) {
	v, ok := math.ParseBig256(s)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUint256, s)
	}
	return v, nil
}

// IsUint reports whether v is non-nil and fits in bits unsigned bits.
func IsUint(v *big.Int, bits int) bool {
	return v != nil && v.Sign() >= 0 && v.BitLen() <= bits
}
