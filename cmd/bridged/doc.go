// Package main (cmd/bridged) runs a custody devnet behind the HTTP API.
//
// All contracts live in memory and share one timelock as their timelocker.
// Signer keys are given as hex private keys; when none is given a fresh key
// is generated and printed once at startup so release signatures can be
// produced with cmd/signer.
//
//	bridged --owner 0x.. --controller 0x.. --admin 0x.. --signer-key <hex>
//
// With --archive-uri the event log is snapshotted periodically into
// content-addressed storage, and flushed once more on shutdown:
//
//	bridged ... --archive-uri file:///var/lib/bridged --archive-uri s3://bucket/events?region=us-east-1
package main
