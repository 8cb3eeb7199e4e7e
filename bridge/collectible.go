package bridge

import (
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/assets"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/cryptoutils"
)

// CollectibleBridge holds custody of tokens from any collectible asset.
type CollectibleBridge struct {
	*Base
}

func NewCollectibleBridge(addr common.Address, cfg Config, log *slog.Logger) *CollectibleBridge {
	b := &CollectibleBridge{Base: newBase(addr, "collectible-bridge", cfg, log)}
	b.registerDeposits()
	b.methods.Register("upChain(address,uint256,uint256,bytes)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		asset, id, nonce, sig := a.Address(0), a.Big(1), a.Big(2), a.Bytes(3)
		if err := a.Err(); err != nil {
			return err
		}
		return b.UpChain(c, asset, id, nonce, sig)
	})
	b.methods.Register("upChainBatch(address[],uint256[],uint256,bytes)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		assetList, ids, nonce, sig := a.Addresses(0), a.Bigs(1), a.Big(2), a.Bytes(3)
		if err := a.Err(); err != nil {
			return err
		}
		return b.UpChainBatch(c, assetList, ids, nonce, sig)
	})
	return b
}

func (b *CollectibleBridge) registerDeposits() {
	b.methods.Register("topUp(address,uint256,uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		asset, id, nonce := a.Address(0), a.Big(1), a.Big(2)
		if err := a.Err(); err != nil {
			return err
		}
		return b.TopUp(c, asset, id, nonce)
	})
	b.methods.Register("topUpBatch(address[],uint256[],uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		assetList, ids, nonce := a.Addresses(0), a.Bigs(1), a.Big(2)
		if err := a.Err(); err != nil {
			return err
		}
		return b.TopUpBatch(c, assetList, ids, nonce)
	})
}

// OnERC721Received accepts safe transfers.
func (b *CollectibleBridge) OnERC721Received(*chain.Call, common.Address, common.Address, *big.Int, []byte) ([4]byte, error) {
	return assets.ERC721Received, nil
}

// TopUp pulls tokenID of asset from the caller, who must have approved the
// bridge.
func (b *CollectibleBridge) TopUp(c *chain.Call, asset common.Address, tokenID, nonce *big.Int) error {
	if err := b.deposit(c, []common.Address{asset}, []*big.Int{tokenID}, nonce); err != nil {
		return err
	}
	c.Emit("TopUp", TopUp{Caller: c.Sender(), Asset: asset, AmountOrID: new(big.Int).Set(tokenID), Nonce: new(big.Int).Set(nonce)})
	return nil
}

// TopUpBatch emits TopUpBatch for any non-empty batch, single items included.
func (b *CollectibleBridge) TopUpBatch(c *chain.Call, assetList []common.Address, tokenIDs []*big.Int, nonce *big.Int) error {
	if err := b.deposit(c, assetList, tokenIDs, nonce); err != nil {
		return err
	}
	c.Emit("TopUpBatch", TopUpBatch{Caller: c.Sender(), Assets: append([]common.Address(nil), assetList...), TokenIDs: copyBigs(tokenIDs), Nonce: new(big.Int).Set(nonce)})
	return nil
}

func (b *CollectibleBridge) deposit(c *chain.Call, assetList []common.Address, tokenIDs []*big.Int, nonce *big.Int) error {
	if err := b.roles.WhenNotPaused(); err != nil {
		return err
	}
	if err := checkPairs(assetList, tokenIDs); err != nil {
		return err
	}
	if err := b.nonces.Consume(c, nonce); err != nil {
		return err
	}
	return b.pull(c, assetList, tokenIDs)
}

// UpChain releases tokenID of asset to the caller.
func (b *CollectibleBridge) UpChain(c *chain.Call, asset common.Address, tokenID, nonce *big.Int, sig []byte) error {
	digest, digestErr := cryptoutils.CollectibleUpChainDigest(c.Sender(), b.addr, asset, tokenID, nonce)
	if err := b.verify(nonce, digest, digestErr, sig); err != nil {
		return err
	}
	if err := b.nonces.Consume(c, nonce); err != nil {
		return err
	}
	if err := b.push(c, []common.Address{asset}, []*big.Int{tokenID}); err != nil {
		return err
	}
	c.Emit("UpChain", UpChain{Caller: c.Sender(), Asset: asset, AmountOrID: new(big.Int).Set(tokenID), Nonce: new(big.Int).Set(nonce)})
	return nil
}

// UpChainBatch releases every (asset, id) pair under one signature.
func (b *CollectibleBridge) UpChainBatch(c *chain.Call, assetList []common.Address, tokenIDs []*big.Int, nonce *big.Int, sig []byte) error {
	if err := checkPairs(assetList, tokenIDs); err != nil {
		return err
	}
	digest, digestErr := cryptoutils.CollectibleUpChainBatchDigest(c.Sender(), b.addr, assetList, tokenIDs, nonce)
	if err := b.verify(nonce, digest, digestErr, sig); err != nil {
		return err
	}
	if err := b.nonces.Consume(c, nonce); err != nil {
		return err
	}
	if err := b.push(c, assetList, tokenIDs); err != nil {
		return err
	}
	c.Emit("UpChainBatch", UpChainBatch{Caller: c.Sender(), Assets: append([]common.Address(nil), assetList...), TokenIDs: copyBigs(tokenIDs), Nonce: new(big.Int).Set(nonce)})
	return nil
}

func (b *CollectibleBridge) pull(c *chain.Call, assetList []common.Address, tokenIDs []*big.Int) error {
	for i, addr := range assetList {
		col, err := resolveCollectible(c, addr)
		if err != nil {
			return err
		}
		sub, err := c.Sub(addr)
		if err != nil {
			return err
		}
		if err := col.TransferFrom(sub, c.Sender(), b.addr, tokenIDs[i]); err != nil {
			return external(err)
		}
	}
	return nil
}

func (b *CollectibleBridge) push(c *chain.Call, assetList []common.Address, tokenIDs []*big.Int) error {
	for i, addr := range assetList {
		col, err := resolveCollectible(c, addr)
		if err != nil {
			return err
		}
		sub, err := c.Sub(addr)
		if err != nil {
			return err
		}
		if err := col.TransferFrom(sub, b.addr, c.Sender(), tokenIDs[i]); err != nil {
			return external(err)
		}
	}
	return nil
}

func resolveCollectible(c *chain.Call, addr common.Address) (assets.Collectible, error) {
	contract, found := c.Env().Contract(addr)
	if !found {
		return nil, ErrNotCollection
	}
	col, ok := contract.(assets.Collectible)
	if !ok {
		return nil, ErrNotCollection
	}
	return col, nil
}

func checkPairs(assetList []common.Address, tokenIDs []*big.Int) error {
	if len(assetList) != len(tokenIDs) {
		return ErrParamLength
	}
	if len(assetList) == 0 {
		return ErrEmptyBatch
	}
	return nil
}
