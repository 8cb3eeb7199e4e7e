// Package attributes implements the attribute store for a collectible asset.
//
// A token starts unrevealed. It becomes revealed exactly once, either by
// presenting a registered signer's signature over (store, tokenID, nonce,
// attrIDs, attrValues) or by a Merkle proof of (tokenID, attrIDs,
// attrValues) against the store's current root. Only the token's current
// owner can reveal it.
//
// After reveal, attribute controllers (typically a bridge) may attach,
// update and remove attributes. Removal swaps the removed element with the
// last one and truncates, so indexes are not stable across removals.
package attributes
