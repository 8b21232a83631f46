// Package repositories implements SQLite persistence for the development backend.
//
// Key Implementations:
//   - [AccountRepository] : accounts with bcrypt password hashes and email lookups
//   - [FavoriteRepository] : per-account favorite event ids
//
// Both expect a database migrated with [shared.RunMigrations] and foreign keys enabled so that removing an
// account removes its favorites.
package repositories
