// Package pokemon defines the record served by the pokedex API and the
// contracts around it.
//
// # Overview
//
// The package exports:
//
//   - Pokemon and Fields: the record and its mutable request body
//   - Gateway: the store operations the cache is reconciled against
//   - EncodeEvolutions / DecodeEvolutions: the evolutions column codec
//   - the error taxonomy (NotFound, Conflict, StoreFailure, LockFailure, InvalidInput)
//
// # Evolutions Encoding
//
// The store keeps evolutions in a single TEXT column. The canonical encoding is a
// JSON array of strings, so labels containing commas or quotes round-trip exactly:
//
//	raw, _ := pokemon.EncodeEvolutions([]string{"Ivysaur", "Venusaur"})
//	// raw == `["Ivysaur","Venusaur"]`
//
// Decoding also accepts the empty string and comma-joined text, which is how older
// rows were written.
//
// # Errors
//
// Every error built here is a *goerrors.Error carrying a category, an HTTP status and a
// text code. Use the Is* predicates or HTTPStatus rather than comparing messages.
package pokemon
