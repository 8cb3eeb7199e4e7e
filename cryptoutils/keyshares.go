package cryptoutils

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/hashicorp/vault/shamir"
)

var (
	ErrNotEnoughShares = errors.New("not enough key shares")
	ErrMixedShares     = errors.New("key shares belong to different signers")
)

// KeyShare is one Shamir share of a signer key. Address and Threshold are
// informational; the share itself carries no metadata.
type KeyShare struct {
	Address   common.Address `json:"address"`
	Threshold int            `json:"threshold"`
	Share     hexutil.Bytes  `json:"share"`
}

// SplitSigner splits the key into parts shares, any threshold of which
// recover it.
func SplitSigner(s *Signer, parts, threshold int) ([]KeyShare, error) {
	if threshold < 2 {
		return nil, errors.New("threshold must be at least 2")
	}
	if parts < threshold {
		return nil, errors.New("total shares must be at least equal to threshold")
	}
	raw, err := shamir.Split(crypto.FromECDSA(s.key), parts, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to split key: %w", err)
	}
	shares := make([]KeyShare, len(raw))
	for i, share := range raw {
		shares[i] = KeyShare{Address: s.Address(), Threshold: threshold, Share: share}
	}
	return shares, nil
}

// CombineShares recovers the signer and checks it against the address the
// shares were issued for.
func CombineShares(shares []KeyShare) (*Signer, error) {
	if len(shares) == 0 {
		return nil, ErrNotEnoughShares
	}
	addr, threshold := shares[0].Address, shares[0].Threshold
	raw := make([][]byte, len(shares))
	for i, share := range shares {
		if share.Address != addr {
			return nil, ErrMixedShares
		}
		raw[i] = share.Share
	}
	if len(shares) < threshold || len(shares) < 2 {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughShares, len(shares), threshold)
	}

	secret, err := shamir.Combine(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to combine shares: %w", err)
	}
	key, err := crypto.ToECDSA(secret)
	if err != nil {
		return nil, fmt.Errorf("shares do not reconstruct a valid key: %w", err)
	}
	s, err := NewSigner(key)
	if err != nil {
		return nil, err
	}
	if s.Address() != addr {
		return nil, fmt.Errorf("shares reconstruct %s, expected %s", s.Address(), addr)
	}
	return s, nil
}
