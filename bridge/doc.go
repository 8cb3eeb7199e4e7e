// Package bridge implements the custody bridges.
//
// Users deposit (topUp) assets into a bridge and later have them released
// (upChain) to themselves on presenting a registered signer's signature over
// the release message. Each deposit and release consumes a nonce from the
// bridge's single nonce space.
//
// Four variants share the Base scaffolding of roles, pause switch, nonce
// ledger and signer registry:
//
//   - FungibleBridge holds one fungible token
//   - CollectibleBridge holds tokens of any collectible asset
//   - AttributeBridge holds tokens of one attribute-carrying collection and
//     applies attribute changes on release
//   - ReceiverBridge holds one fungible token and releases only through the
//     Owner's withdraw
//
// Privileged setters are dispatched by ABI signature so a governance
// timelock can reach them. They accept only the currently recorded
// TimeLocker.
package bridge
