// Package main (cmd/signer) is the off-chain signing tool for release
// authorizations.
//
// It produces the 65-byte signatures the bridges and the attribute store
// accept, and can check against a live network that a key is registered
// before it is used:
//
//	signer generate
//	signer fungible --key <hex> --caller 0x.. --bridge 0x.. --token 0x.. --amount 100 --nonce 7
//	signer collectible --key <hex> --caller 0x.. --bridge 0x.. --asset 0x.. --token-id 1 --nonce 8
//	signer reveal --key <hex> --store 0x.. --token-id 1 --nonce 9 --attr 1=10 --attr 2=20
//	signer verify-onchain --key <hex> --contract 0x.. --rpc-addr http://127.0.0.1:8545
//
// Keys can be kept in a passphrase-encrypted keystore instead of passed in
// hex, and split into Shamir shares for custodians:
//
//	SIGNER_PASSPHRASE=... signer encrypt --key <hex> --out signer.json
//	SIGNER_PASSPHRASE=... signer fungible --key-file signer.json ...
//	signer split --key-file signer.json --out-dir shares --shares 5 --threshold 3
//	signer combine --share shares/share-1.json --share shares/share-4.json --share shares/share-5.json
package main
