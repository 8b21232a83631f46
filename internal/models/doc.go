// Package models defines the data shared by the favorites reconciliation flow.
//
// The package contains two categories of types:
//
// 1. Identifiers and sets
//   - [FavoriteID] : an event id in canonical string form
//   - [FavoriteSet] : an unordered set of ids that serializes as a sorted JSON array
//
// 2. Persisted records kept in the durable store
//   - [User] : the signed-in identity, the only authentication signal the client trusts
//   - [PendingFavorite] : the single anonymous heart tap awaiting an authentication outcome
//
// [Event] describes catalog entries so notifications can name what was saved.
package models
