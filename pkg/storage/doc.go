// Package storage implements the column storage engine: per-type in-memory
// containers holding one column of cell values.
//
// Every storage keeps a value array plus a sparse overlay of per-row error
// messages. Cells travel as Item values, either.Either[string, T], so a
// malformed cell is data rather than a Go error:
//
//	s := storage.NewNumeric(storage.DefaultOptions())
//	_ = s.AddAll([]storage.Item[decimal.Decimal]{
//		storage.Valid(decimal.NewFromInt(5)),
//		storage.Invalid[decimal.Decimal]("#DIV/0!"),
//	})
//
// Numeric storages pick the narrowest of byte, short, int and long arrays
// that holds every value, and fall back to a decimal side array for
// fractions and integers beyond the long range. Text and date storages
// deduplicate values through bounded pools. Array, record and tagged
// storages compose the scalar ones.
//
// Structural mutations return a Revert that exactly undoes them. Reverts of a
// sequence of mutations must run in reverse order; Compose does that.
//
// Storages are not safe for concurrent mutation. Reads may run on other
// goroutines while no writer is active.
package storage
