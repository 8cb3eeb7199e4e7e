package bridge

import (
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/assets"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/cryptoutils"
)

// FungibleBridge holds custody of a single fungible token.
type FungibleBridge struct {
	*Base
	token assets.Fungible
}

func NewFungibleBridge(addr common.Address, token assets.Fungible, cfg Config, log *slog.Logger) *FungibleBridge {
	b := &FungibleBridge{
		Base:  newBase(addr, "fungible-bridge", cfg, log),
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
	b.methods.Register("upChain(uint256,uint256,bytes)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		amount, nonce, sig := a.Big(0), a.Big(1), a.Bytes(2)
		if err := a.Err(); err != nil {
			return err
		}
		return b.UpChain(c, amount, nonce, sig)
	})
	return b
}

func (b *FungibleBridge) Token() common.Address { return b.token.Address() }

// TopUp pulls amount from the caller, who must have approved the bridge.
func (b *FungibleBridge) TopUp(c *chain.Call, amount, nonce *big.Int) error {
	return b.depositFungible(c, b.token, amount, nonce)
}

// UpChain releases amount to the caller under a registered signer's
// signature over FungibleUpChainDigest.
func (b *FungibleBridge) UpChain(c *chain.Call, amount, nonce *big.Int, sig []byte) error {
	digest, digestErr := cryptoutils.FungibleUpChainDigest(c.Sender(), b.addr, b.token.Address(), amount, nonce)
	if err := b.verify(nonce, digest, digestErr, sig); err != nil {
		return err
	}
	if err := checkAmount(amount); err != nil {
		return err
	}
	if err := b.nonces.Consume(c, nonce); err != nil {
		return err
	}
	if err := b.sendFungible(c, b.token, c.Sender(), amount); err != nil {
		return err
	}
	c.Emit("UpChain", UpChain{Caller: c.Sender(), Asset: b.token.Address(), AmountOrID: new(big.Int).Set(amount), Nonce: new(big.Int).Set(nonce)})
	b.log.Info("released", "caller", c.Sender(), "amount", amount, "nonce", nonce)
	return nil
}
