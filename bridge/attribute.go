package bridge

import (
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/cryptoutils"
	"github.com/ruteri/asset-custody-bridge/interfaces"
)

var ErrNotAttributeAsset = interfaces.NewValidationError("asset has no attribute store")

// AttributeEditor is the part of an attribute store a bridge drives. The
// bridge must hold the store's attribute controller capability.
type AttributeEditor interface {
	Address() common.Address
	Collection() common.Address
	ApplyDelta(c *chain.Call, tokenID *big.Int, delta cryptoutils.AttributeDelta) error
}

// AttributeBridge is a collectible bridge whose releases also edit the
// released token's attributes.
type AttributeBridge struct {
	*CollectibleBridge
	store AttributeEditor
}

func NewAttributeBridge(addr common.Address, store AttributeEditor, cfg Config, log *slog.Logger) *AttributeBridge {
	b := &AttributeBridge{
		CollectibleBridge: &CollectibleBridge{Base: newBase(addr, "attribute-bridge", cfg, log)},
		store:             store,
	}
	b.registerDeposits()
	b.methods.Register("upChain(address,uint256,uint256,uint256[],uint256[],uint256[],uint256[],uint256[],bytes)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		asset, id, nonce := a.Address(0), a.Big(1), a.Big(2)
		delta := cryptoutils.AttributeDelta{
			AttachIDs:     a.Bigs(3),
			AttachValues:  a.Bigs(4),
			UpdateIndexes: a.Bigs(5),
			UpdateValues:  a.Bigs(6),
			RemoveIndexes: a.Bigs(7),
		}
		sig := a.Bytes(8)
		if err := a.Err(); err != nil {
			return err
		}
		return b.UpChain(c, asset, id, nonce, delta, sig)
	})
	b.methods.Register("upChainBatch(address[],uint256[],uint256,uint128[][],uint128[][],uint256[][],uint128[][],uint256[][],bytes)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		assetList, ids, nonce := a.Addresses(0), a.Bigs(1), a.Big(2)
		attachIDs, attachValues := a.BigMatrix(3), a.BigMatrix(4)
		updateIndexes, updateValues := a.BigMatrix(5), a.BigMatrix(6)
		removeIndexes := a.BigMatrix(7)
		sig := a.Bytes(8)
		if err := a.Err(); err != nil {
			return err
		}
		n := len(ids)
		if len(attachIDs) != n || len(attachValues) != n || len(updateIndexes) != n || len(updateValues) != n || len(removeIndexes) != n {
			return ErrParamLength
		}
		deltas := make([]cryptoutils.AttributeDelta, n)
		for i := range deltas {
			deltas[i] = cryptoutils.AttributeDelta{
				AttachIDs:     attachIDs[i],
				AttachValues:  attachValues[i],
				UpdateIndexes: updateIndexes[i],
				UpdateValues:  updateValues[i],
				RemoveIndexes: removeIndexes[i],
			}
		}
		return b.UpChainBatch(c, assetList, ids, nonce, deltas, sig)
	})
	return b
}

func (b *AttributeBridge) Store() common.Address { return b.store.Address() }

// UpChain releases tokenID to the caller after applying delta to its
// attributes.
func (b *AttributeBridge) UpChain(c *chain.Call, asset common.Address, tokenID, nonce *big.Int, delta cryptoutils.AttributeDelta, sig []byte) error {
	digest, digestErr := cryptoutils.AttributeUpChainDigest(c.Sender(), b.addr, asset, tokenID, nonce, delta)
	if err := b.verify(nonce, digest, digestErr, sig); err != nil {
		return err
	}
	if err := b.release(c, []common.Address{asset}, []*big.Int{tokenID}, nonce, []cryptoutils.AttributeDelta{delta}); err != nil {
		return err
	}
	c.Emit("UpChain", UpChain{Caller: c.Sender(), Asset: asset, AmountOrID: new(big.Int).Set(tokenID), Nonce: new(big.Int).Set(nonce)})
	return nil
}

// UpChainBatch releases every token under one signature; deltas[i] applies
// to tokenIDs[i].
func (b *AttributeBridge) UpChainBatch(c *chain.Call, assetList []common.Address, tokenIDs []*big.Int, nonce *big.Int, deltas []cryptoutils.AttributeDelta, sig []byte) error {
	if err := checkPairs(assetList, tokenIDs); err != nil {
		return err
	}
	if len(deltas) != len(tokenIDs) {
		return ErrParamLength
	}
	digest, digestErr := cryptoutils.AttributeUpChainBatchDigest(c.Sender(), b.addr, assetList, tokenIDs, nonce, deltas)
	if err := b.verify(nonce, digest, digestErr, sig); err != nil {
		return err
	}
	if err := b.release(c, assetList, tokenIDs, nonce, deltas); err != nil {
		return err
	}
	c.Emit("UpChainBatch", UpChainBatch{Caller: c.Sender(), Assets: append([]common.Address(nil), assetList...), TokenIDs: copyBigs(tokenIDs), Nonce: new(big.Int).Set(nonce)})
	return nil
}

func (b *AttributeBridge) release(c *chain.Call, assetList []common.Address, tokenIDs []*big.Int, nonce *big.Int, deltas []cryptoutils.AttributeDelta) error {
	for _, asset := range assetList {
		if asset != b.store.Collection() {
			return ErrNotAttributeAsset
		}
	}
	if err := b.nonces.Consume(c, nonce); err != nil {
		return err
	}
	for i, tokenID := range tokenIDs {
		sub, err := c.Sub(b.store.Address())
		if err != nil {
			return err
		}
		if err := b.store.ApplyDelta(sub, tokenID, deltas[i]); err != nil {
			return external(err)
		}
	}
	if err := b.push(c, assetList, tokenIDs); err != nil {
		return err
	}
	b.log.Info("released with attributes", "caller", c.Sender(), "tokens", len(tokenIDs), "nonce", nonce)
	return nil
}
