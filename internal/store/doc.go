// Package store provides persistence for whisperlink's identity records.
//
// Everything is layered on a small key-value contract (domain.KeyValueStore)
// with two backends:
//   - FileKV keeps one file per key under the configured home directory,
//     written atomically via temp file and rename.
//   - SQLiteKV keeps all keys in a single SQLite table.
//
// On top of a KV:
//   - IdentityStore keeps the public identity record as JSON.
//   - SecretStore keeps the private key sealed under a passphrase
//     (scrypt or Argon2id, then ChaCha20-Poly1305).
//
// All methods are concurrency-safe via internal locking.
package store
