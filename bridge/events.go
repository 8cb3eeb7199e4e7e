package bridge

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TopUp and UpChain carry an amount for fungible bridges and a token id for
// collectible ones.
type TopUp struct {
	Caller     common.Address `json:"caller"`
	Asset      common.Address `json:"asset"`
	AmountOrID *big.Int       `json:"amount_or_id"`
	Nonce      *big.Int       `json:"nonce"`
}

type UpChain struct {
	Caller     common.Address `json:"caller"`
	Asset      common.Address `json:"asset"`
	AmountOrID *big.Int       `json:"amount_or_id"`
	Nonce      *big.Int       `json:"nonce"`
}

type TopUpBatch struct {
	Caller   common.Address   `json:"caller"`
	Assets   []common.Address `json:"assets"`
	TokenIDs []*big.Int       `json:"token_ids"`
	Nonce    *big.Int         `json:"nonce"`
}

type UpChainBatch struct {
	Caller   common.Address   `json:"caller"`
	Assets   []common.Address `json:"assets"`
	TokenIDs []*big.Int       `json:"token_ids"`
	Nonce    *big.Int         `json:"nonce"`
}

type Withdraw struct {
	Destination common.Address `json:"destination"`
	Amount      *big.Int       `json:"amount"`
}
