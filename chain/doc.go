// Package chain is the single-threaded execution environment the custody
// contracts run in.
//
// An Env serialises top-level calls behind one mutex. Every call executes
// atomically: contracts record an undo closure for each mutation through
// Call.OnRevert, and when the call returns an error the closures run in
// reverse order, leaving storage, native balances and the event log exactly
// as they were before the call began.
//
// Contracts receive a *Call describing the frame: the immediate sender, the
// contract's own address, attached native value and the block timestamp.
// Nested calls reuse the top-level journal, so a failure anywhere in the
// call tree rolls back the whole transaction.
//
// Contracts that accept ABI-encoded input register their entry points on a
// Dispatcher, keyed by the four-byte selector keccak256(signature)[:4].
package chain
