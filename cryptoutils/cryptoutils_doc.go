// Package cryptoutils holds the off-chain cryptography of the custody
// system: the ABI-encoded digests signers authorize, signature recovery
// against a signer registry, the Merkle proofs used for attribute reveals,
// and at-rest protection for signer keys.
//
// Release authorization is a single recoverable secp256k1 signature over
// keccak256(abi.encode(...)) of the release parameters, wrapped in the
// "\x19Ethereum Signed Message:\n32" prefix:
//
//	digest, _ := cryptoutils.FungibleUpChainDigest(caller, bridge, token, amount, nonce)
//	sig, _ := signer.SignDigest(digest)
//
// Signer keys can be sealed with a passphrase (EncryptSigner, Argon2id and
// AES-GCM) or split among custodians with Shamir secret sharing
// (SplitSigner, CombineShares).
package cryptoutils
