package bridge

import (
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/assets"
	"github.com/ruteri/asset-custody-bridge/chain"
)

// ReceiverBridge takes deposits of one fungible token and releases them only
// through the Owner, typically to a paired sending bridge.
type ReceiverBridge struct {
	*Base
	token assets.Fungible
}

func NewReceiverBridge(addr common.Address, token assets.Fungible, cfg Config, log *slog.Logger) *ReceiverBridge {
	b := &ReceiverBridge{
		Base:  newBase(addr, "receiver-bridge", cfg, log),
		token: token,
	}
	b.methods.Register("topUp(uint256,uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		amount, nonce := a.Big(0), a.Big(1)
		if err := a.Err(); err != nil {
			return err
		}
		return b.TopUp(c, amount, nonce)
	})
	b.methods.Register("withdraw(uint256,address)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		amount, destination := a.Big(0), a.Address(1)
		if err := a.Err(); err != nil {
			return err
		}
		return b.Withdraw(c, amount, destination)
	})
	return b
}

func (b *ReceiverBridge) Token() common.Address { return b.token.Address() }

func (b *ReceiverBridge) TopUp(c *chain.Call, amount, nonce *big.Int) error {
	return b.depositFungible(c, b.token, amount, nonce)
}

// Withdraw sends amount to destination. Owner only.
func (b *ReceiverBridge) Withdraw(c *chain.Call, amount *big.Int, destination common.Address) error {
	if err := b.roles.OnlyOwner(c); err != nil {
		return err
	}
	if err := b.roles.WhenNotPaused(); err != nil {
		return err
	}
	if err := checkAmount(amount); err != nil {
		return err
	}
	if err := b.sendFungible(c, b.token, destination, amount); err != nil {
		return err
	}
	c.Emit("Withdraw", Withdraw{Destination: destination, Amount: new(big.Int).Set(amount)})
	b.log.Info("withdrawn", "destination", destination, "amount", amount)
	return nil
}
