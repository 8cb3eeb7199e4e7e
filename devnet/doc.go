/*
Package devnet assembles a complete custody deployment inside one chain.Env:
a governance timelock, a fungible token, a collectible collection with its
attribute store, and the four bridge variants. Every deployed contract names
the timelock as its timelocker, so signer and timelocker rotations have to go
through queued transactions exactly as they would on a live network.

Devnet implements api.BridgeProvider and is what cmd/bridged serves over
HTTP.
*/
package devnet
