// Package gridstore provides adaptive columnar storage for spreadsheet-style
// tables: typed column storages that keep a per-cell error beside every
// value, widen their physical representation as content demands and make
// every structural edit reversible.
//
// # Architecture
//
// Every column is a storage wrapped by an error overlay. The overlay records
// a message for each cell whose content failed to parse or calculate and
// shifts those messages on insert and remove so that values and errors stay
// aligned.
//
// Numeric columns start in the narrowest integer representation that holds
// their content (byte, short, int, long) and promote one step at a time.
// Values outside the long range, or with a fractional part, live in a
// sparse arbitrary-precision side array.
//
// Composite columns (array, record, tagged) fan edits out to child
// storages and roll back in reverse order when a child fails.
//
// # Quick Start
//
// Load a delimited file, inspect it and export a snapshot:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/ajitpratap0/gridstore/internal/loader"
//	    "github.com/ajitpratap0/gridstore/pkg/export"
//	)
//
//	tbl, err := loader.LoadFile(context.Background(), "orders.csv", loader.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	snap, err := tbl.Snapshot(0, tbl.Rows())
//	if err != nil {
//	    return err
//	}
//	return export.Write(os.Stdout, snap, export.DefaultOptions())
//
// Or build storages directly:
//
//	s := storage.NewNumeric(storage.DefaultOptions())
//	_ = s.AddAll([]storage.Item[decimal.Decimal]{
//	    storage.Valid(decimal.NewFromInt(300)),
//	    storage.Invalid[decimal.Decimal]("cannot parse \"abc\" as number"),
//	})
//	revert, _ := s.InsertRows(1, []storage.Item[decimal.Decimal]{
//	    storage.Valid(decimal.NewFromInt(5_000_000_000)),
//	})
//	revert() // back to the short representation
//
// # Key Packages
//
//	pkg/storage      - Column storages, error overlay, data types
//	pkg/pool         - Interning pools for text and temporal values
//	pkg/export       - Arrow IPC and JSON lines snapshots
//	pkg/compression  - Compressed export streams
//	pkg/config       - YAML and environment configuration
//	pkg/errors       - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus metrics collection
//	internal/table   - Tables of columns sharing a row count
//	internal/loader  - Delimited text loading with type inference
//
// # Configuration
//
// gridstore reads an optional YAML file; GRIDSTORE_* environment variables
// override it, e.g. GRIDSTORE_STORAGE_TEXT_POOL_SIZE=0 disables text
// interning. ${VAR_NAME} references inside the file are expanded by
// config.Load.
//
// # Command Line
//
//	gridstore inspect orders.csv
//	gridstore export orders.csv --format json --compression zstd
//	gridstore config init
package gridstore
