// Package storage provides content-addressed blob storage with pluggable
// backends. It holds the archived custody event log (see package archive).
//
// Content is identified by the SHA-256 of its bytes, and every backend
// checks fetched bytes against the identifier before returning them:
//
//   - file:///var/lib/custody/archive
//   - s3://bucket/prefix?region=us-west-2
//   - ipfs://127.0.0.1:5001/custody-archive
//   - vault://vault.example.com:8200/secret/custody-archive
//
// StorageBackendFactory turns such URIs into backends, and
// CreateMultiBackend combines several for redundancy: writes go to every
// available backend and reads fall back in order.
//
//	factory := storage.NewStorageBackendFactory(log)
//	backend, err := factory.CreateMultiBackend([]string{
//		"file:///var/lib/custody/archive",
//		"s3://custody-archive/devnet?region=eu-west-1",
//	})
//	id, err := backend.Store(ctx, snapshot)
package storage
