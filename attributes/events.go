package attributes

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type Revealed struct {
	TokenID *big.Int `json:"token_id"`
}

type AttributeAttached struct {
	TokenID *big.Int `json:"token_id"`
	AttrID  *big.Int `json:"attr_id"`
	Value   *big.Int `json:"value"`
}

type AttributeUpdated struct {
	TokenID *big.Int `json:"token_id"`
	Index   *big.Int `json:"index"`
	Value   *big.Int `json:"value"`
}

type AttributeRemoved struct {
	TokenID *big.Int `json:"token_id"`
	Index   *big.Int `json:"index"`
}

type RootSet struct {
	Root common.Hash `json:"root"`
}

type AttributeControllerSet struct {
	Controller common.Address `json:"controller"`
	Allowed    bool           `json:"allowed"`
}

type GameMint struct {
	Caller  common.Address `json:"caller"`
	Asset   common.Address `json:"asset"`
	TokenID *big.Int       `json:"token_id"`
	EqID    *big.Int       `json:"eq_id"`
	Nonce   *big.Int       `json:"nonce"`
}
