// Package registry maintains the set of off-chain signers whose signatures
// custody contracts accept, and reads the same set from deployed contracts.
//
// SignerRegistry is the in-contract set. Every custody contract owns one and
// mutates it only from its TimeLocker-guarded setSigner entry point. Changes
// are journaled on the call so a reverted transaction leaves the set intact.
//
// OnchainSignerClient queries the signers(address) view of a deployed bridge
// through go-ethereum's bind package. Off-chain tooling uses it to check that
// a key is registered before producing release signatures.
package registry
