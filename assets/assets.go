// Package assets defines the transfer capabilities custody contracts consume
// and ships in-memory fungible and collectible reference contracts that
// provide them.
package assets

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

var (
	ErrTransferExceedsBalance   = interfaces.NewValidationError("ERC20: transfer amount exceeds balance")
	ErrTransferExceedsAllowance = interfaces.NewValidationError("ERC20: transfer amount exceeds allowance")
	ErrTransferToZero           = interfaces.NewValidationError("ERC20: transfer to the zero address")
	ErrNotOwnerNorApproved      = interfaces.NewAuthorizationError("ERC721: caller is not token owner nor approved")
	ErrInvalidTokenID           = interfaces.NewValidationError("ERC721: invalid token ID")
	ErrTokenMinted              = interfaces.NewStateError("ERC721: token already minted")
	ErrWrongFrom                = interfaces.NewValidationError("ERC721: transfer from incorrect owner")
	ErrNonReceiver              = interfaces.NewValidationError("ERC721: transfer to non ERC721Receiver implementer")
	ErrNotMinter                = interfaces.NewAuthorizationError("Ownable: caller is not the owner")
)

// ERC721Received is the value receivers return to accept a safe transfer.
var ERC721Received = [4]byte{0x15, 0x0b, 0x7a, 0x02}

// Fungible is the capability a fungible custody bridge consumes.
type Fungible interface {
	chain.Contract
	BalanceOf(owner common.Address) *big.Int
	Transfer(c *chain.Call, to common.Address, amount *big.Int) error
	TransferFrom(c *chain.Call, from, to common.Address, amount *big.Int) error
}

// Collectible is the capability a non-fungible custody bridge consumes.
type Collectible interface {
	chain.Contract
	OwnerOf(tokenID *big.Int) (common.Address, error)
	TransferFrom(c *chain.Call, from, to common.Address, tokenID *big.Int) error
}

// Mintable is a collectible that issues new token ids to authorised
// minters. TotalSupply counts every token minted so far.
type Mintable interface {
	Collectible
	TotalSupply() *big.Int
	Mint(c *chain.Call, to common.Address, tokenID *big.Int) error
}

// CollectibleReceiver is implemented by contracts accepting safe transfers.
type CollectibleReceiver interface {
	OnERC721Received(c *chain.Call, operator, from common.Address, tokenID *big.Int, data []byte) ([4]byte, error)
}

type Transfer struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *big.Int       `json:"value"`
}

type Approval struct {
	Owner   common.Address `json:"owner"`
	Spender common.Address `json:"spender"`
	Value   *big.Int       `json:"value"`
}

type ApprovalForAll struct {
	Owner    common.Address `json:"owner"`
	Operator common.Address `json:"operator"`
	Approved bool           `json:"approved"`
}
