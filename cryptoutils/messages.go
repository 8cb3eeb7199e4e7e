package cryptoutils

import (
	"fmt"
	"math/big"

	gethAbi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// FungibleUpChainSelector is the fungible release entry point's selector. It
// is part of the fungible release message.
var FungibleUpChainSelector [4]byte

var (
	fungibleUpChainArgs       gethAbi.Arguments
	collectibleUpChainArgs    gethAbi.Arguments
	collectibleBatchArgs      gethAbi.Arguments
	attributeUpChainArgs      gethAbi.Arguments
	attributeUpChainBatchArgs gethAbi.Arguments
	revealArgs                gethAbi.Arguments
	gameMintArgs              gethAbi.Arguments
	merkleLeafArgs            gethAbi.Arguments
	timelockTxArgs            gethAbi.Arguments
)

func mustType(t string) gethAbi.Type {
	typ, err := gethAbi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("abi type %s: %v", t, err))
	}
	return typ
}

func arguments(types ...string) gethAbi.Arguments {
	args := make(gethAbi.Arguments, len(types))
	for i, t := range types {
		args[i] = gethAbi.Argument{Type: mustType(t)}
	}
	return args
}

func init() {
	copy(FungibleUpChainSelector[:], crypto.Keccak256([]byte("upChain(uint256,uint256,bytes)"))[:4])

	fungibleUpChainArgs = arguments("address", "address", "address", "uint256", "uint256", "bytes4")
	collectibleUpChainArgs = arguments("address", "address", "address", "uint256", "uint256")
	collectibleBatchArgs = arguments("address", "address", "address[]", "uint256[]", "uint256")
	attributeUpChainArgs = arguments(
		"address", "address", "address", "uint256", "uint256",
		"uint256[]", "uint256[]", "uint256[]", "uint256[]", "uint256[]",
	)
	attributeUpChainBatchArgs = arguments(
		"address", "address", "address[]", "uint256[]", "uint256",
		"uint128[][]", "uint128[][]", "uint256[][]", "uint128[][]", "uint256[][]",
	)
	revealArgs = arguments("address", "uint256", "uint256", "uint128[]", "uint128[]")
	gameMintArgs = arguments("address", "address", "uint256", "uint256", "uint256[]", "uint256[]")
	merkleLeafArgs = arguments("uint256", "uint128[]", "uint128[]")
	timelockTxArgs = arguments("address", "uint256", "string", "bytes", "uint256")
}

func digest(args gethAbi.Arguments, values ...any) (common.Hash, error) {
	encoded, err := args.Pack(values...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode message: %w", err)
	}
	return crypto.Keccak256Hash(encoded), nil
}

// FungibleUpChainDigest is the message authorising release of amount of token
// from bridge to caller.
func FungibleUpChainDigest(caller, bridge, token common.Address, amount, nonce *big.Int) (common.Hash, error) {
	return digest(fungibleUpChainArgs, caller, bridge, token, amount, nonce, FungibleUpChainSelector)
}

// CollectibleUpChainDigest authorises release of a single token id.
func CollectibleUpChainDigest(caller, bridge, asset common.Address, tokenID, nonce *big.Int) (common.Hash, error) {
	return digest(collectibleUpChainArgs, caller, bridge, asset, tokenID, nonce)
}

// CollectibleUpChainBatchDigest authorises release of every (asset, id) pair
// with one signature.
func CollectibleUpChainBatchDigest(caller, bridge common.Address, assets []common.Address, tokenIDs []*big.Int, nonce *big.Int) (common.Hash, error) {
	return digest(collectibleBatchArgs, caller, bridge, assets, tokenIDs, nonce)
}

// AttributeDelta is applied to a token's attributes when it is released:
// attach first, then update by index, then remove by index.
type AttributeDelta struct {
	AttachIDs     []*big.Int `json:"attach_ids"`
	AttachValues  []*big.Int `json:"attach_values"`
	UpdateIndexes []*big.Int `json:"update_indexes"`
	UpdateValues  []*big.Int `json:"update_values"`
	RemoveIndexes []*big.Int `json:"remove_indexes"`
}

func (d AttributeDelta) IsEmpty() bool {
	return len(d.AttachIDs) == 0 && len(d.UpdateIndexes) == 0 && len(d.RemoveIndexes) == 0
}

func (d AttributeDelta) nonNil() AttributeDelta {
	return AttributeDelta{
		AttachIDs:     orEmpty(d.AttachIDs),
		AttachValues:  orEmpty(d.AttachValues),
		UpdateIndexes: orEmpty(d.UpdateIndexes),
		UpdateValues:  orEmpty(d.UpdateValues),
		RemoveIndexes: orEmpty(d.RemoveIndexes),
	}
}

func orEmpty(v []*big.Int) []*big.Int {
	if v == nil {
		return []*big.Int{}
	}
	return v
}

// AttributeUpChainDigest authorises release of tokenID together with its
// attribute changes.
func AttributeUpChainDigest(caller, bridge, asset common.Address, tokenID, nonce *big.Int, delta AttributeDelta) (common.Hash, error) {
	d := delta.nonNil()
	return digest(attributeUpChainArgs, caller, bridge, asset, tokenID, nonce,
		d.AttachIDs, d.AttachValues, d.UpdateIndexes, d.UpdateValues, d.RemoveIndexes)
}

// AttributeUpChainBatchDigest authorises a batch release; deltas[i] applies
// to tokenIDs[i].
func AttributeUpChainBatchDigest(caller, bridge common.Address, assets []common.Address, tokenIDs []*big.Int, nonce *big.Int, deltas []AttributeDelta) (common.Hash, error) {
	attachIDs := make([][]*big.Int, len(deltas))
	attachValues := make([][]*big.Int, len(deltas))
	updateIndexes := make([][]*big.Int, len(deltas))
	updateValues := make([][]*big.Int, len(deltas))
	removeIndexes := make([][]*big.Int, len(deltas))
	for i, delta := range deltas {
		d := delta.nonNil()
		attachIDs[i], attachValues[i] = d.AttachIDs, d.AttachValues
		updateIndexes[i], updateValues[i] = d.UpdateIndexes, d.UpdateValues
		removeIndexes[i] = d.RemoveIndexes
	}
	return digest(attributeUpChainBatchArgs, caller, bridge, assets, tokenIDs, nonce,
		attachIDs, attachValues, updateIndexes, updateValues, removeIndexes)
}

// RevealDigest authorises binding attrIDs/attrValues to tokenID on store.
func RevealDigest(store common.Address, tokenID, nonce *big.Int, attrIDs, attrValues []*big.Int) (common.Hash, error) {
	return digest(revealArgs, store, tokenID, nonce, orEmpty(attrIDs), orEmpty(attrValues))
}

// GameMintDigest authorises caller to mint one token through minter for the
// off-chain item eqID, revealed with attrIDs/attrValues.
func GameMintDigest(caller, minter common.Address, nonce, eqID *big.Int, attrIDs, attrValues []*big.Int) (common.Hash, error) {
	return digest(gameMintArgs, caller, minter, nonce, eqID, orEmpty(attrIDs), orEmpty(attrValues))
}

// MerkleLeaf is the committed leaf for a token's attributes.
func MerkleLeaf(tokenID *big.Int, attrIDs, attrValues []*big.Int) (common.Hash, error) {
	return digest(merkleLeafArgs, tokenID, orEmpty(attrIDs), orEmpty(attrValues))
}

// TimelockTxHash identifies a queued governance transaction.
func TimelockTxHash(target common.Address, value *big.Int, signature string, data []byte, eta *big.Int) (common.Hash, error) {
	if data == nil {
		data = []byte{}
	}
	return digest(timelockTxArgs, target, value, signature, data, eta)
}
