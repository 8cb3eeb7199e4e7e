// Package interfaces defines the types shared between the custody contracts,
// the execution environment and the HTTP surface.
//
// # Errors
//
// Every failed operation returns an *Error carrying a Kind and the revert
// reason. Kinds map one-to-one onto the failure classes callers care about:
//
//   - KindValidation: malformed input (length mismatch, bad signature encoding,
//     out-of-range values, zero amounts)
//   - KindAuthorization: the caller or signer lacks the required role
//   - KindReplay: a nonce was already consumed or a token already revealed
//   - KindState: paused, unrevealed tokens, timelock window violations
//   - KindExternal: an asset contract or relayed call target failed; the
//     original error is wrapped and its message propagated verbatim
//
// Two *Error values match under errors.Is when their kind and reason agree,
// so package-level sentinels can be compared against freshly built errors.
//
// # Addresses and amounts
//
// Addresses are go-ethereum common.Address values. Amounts, token ids and
// nonces are *big.Int restricted to the uint256 range.
package interfaces
