// Package game implements the dealing engine for a single Texas Hold'em table.
//
// A Table owns eight seats, a deck that is replaced every round and the shared
// community cards. DealNext is the only transition operator and walks the
// phases in strict order:
//
//	WAITING -> HOLE_CARDS -> FLOP -> TURN -> RIVER -> SHOWDOWN
//
// ResetRound returns the table to WAITING while keeping the seated players.
//
// # Deterministic Testing
//
// The deck shuffle is the only source of randomness. Inject a seeded
// generator so deals are reproducible:
//
//	rng := randutil.New(42)
//	t := game.NewTable("demo", rng)
//
// Or stack the deck completely:
//
//	t := game.NewTable("demo", nil, game.WithStackedDeck(
//	    poker.MustParseCards("AS", "AC", "KH", "KD", "KS", "KC", "2D", "3D", "4D")...))
//
// # Concurrency
//
// A Table is not safe for concurrent use. Callers hold one exclusive lock per
// table for the duration of each operation (see internal/server.Registry).
package game
