// Package store owns the durable key-value storage the client keeps between screens.
//
// [Storage] is the synchronous string-keyed backend: [SQLiteStorage] for the CLI and TUI, [MemoryStorage] for tests and
// --ephemeral runs. [Store] is the only code that knows the storage keys; it exposes typed reads and writes for the
// anonymous ledger, the pending favorite, the confirmation marker and the user identity.
//
// Every read treats a missing key and a malformed value the same way: the entity is absent.
// Parse failures are logged at debug level and never returned to callers.
package store
