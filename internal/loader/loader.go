// Package loader reads delimited text into a table, inferring a column type
// from a sample of each column's cells.
package loader

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/gridstore/internal/table"
	"github.com/ajitpratap0/gridstore/pkg/either"
	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/logger"
	"github.com/ajitpratap0/gridstore/pkg/storage"
)

// EmptyCell is the content error recorded for a blank cell in a non-text
// column.
const EmptyCell = "empty cell"

// checkEvery is how many rows are converted between context checks.
const checkEvery = 1024

// Options configure a load.
type Options struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// SampleSize is how many non-empty cells per column drive inference.
	SampleSize int
	// Storage is passed to every column storage.
	Storage storage.Options
}

// DefaultOptions returns comma separated loading of user-entered data.
func DefaultOptions() Options {
	opts := storage.DefaultOptions()
	opts.ImmediateData = true
	return Options{
		Comma:      ',',
		SampleSize: 100,
		Storage:    opts,
	}
}

// inference order; the first type every sampled cell parses as wins
var candidates = []storage.DataType{
	storage.Number(),
	storage.Boolean(),
	storage.Date(storage.PrecisionDate),
	storage.Date(storage.PrecisionDateTime),
	storage.Date(storage.PrecisionZonedDateTime),
	storage.Date(storage.PrecisionYearMonth),
	storage.Date(storage.PrecisionTimeOfDay),
}

// LoadFile loads the file at path into a table named after the file.
func LoadFile(ctx context.Context, path string, opts Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "open input").
			WithDetail("path", path)
	}
	defer f.Close()
	return Load(ctx, f, tableName(path), opts)
}

// Load reads a header line followed by data rows from r.
func Load(ctx context.Context, r io.Reader, name string, opts Options) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultOptions().SampleSize
	}

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrorTypeData, "input has no header line")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "read header")
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "read rows")
	}

	log := logger.WithContext(context.WithValue(ctx, logger.TableKey, name))
	tbl := table.New(name, opts.Storage)
	types := make([]storage.DataType, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = columnName(h, i)
		types[i] = infer(records, i, opts.SampleSize)
		if _, err := tbl.AddColumn(names[i], types[i]); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "add column").
				WithDetail("column", names[i])
		}
		log.Debug("column inferred", zap.String("column", names[i]), zap.Stringer("type", types[i]))
	}

	rows := make([]table.Row, 0, min(len(records), checkEvery))
	extra := 0
	for n, record := range records {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if len(rows) > 0 {
				if _, err := tbl.InsertRows(tbl.Rows(), rows); err != nil {
					return nil, err
				}
				rows = rows[:0]
			}
		}
		if len(record) > len(header) {
			extra++
		}
		row := make(table.Row, len(header))
		for i := range header {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			row[names[i]] = read(types[i], cell)
		}
		rows = append(rows, row)
	}
	if len(rows) > 0 {
		if _, err := tbl.InsertRows(tbl.Rows(), rows); err != nil {
			return nil, err
		}
	}
	if extra > 0 {
		log.Warn("rows with more cells than the header were truncated", zap.Int("rows", extra))
	}
	log.Info("table loaded", zap.Int("rows", tbl.Rows()), zap.Int("columns", len(header)))
	return tbl, nil
}

// infer samples up to sampleSize non-empty cells of column col.
func infer(records [][]string, col, sampleSize int) storage.DataType {
	sample := make([]string, 0, sampleSize)
	for _, record := range records {
		if len(sample) == sampleSize {
			break
		}
		if col < len(record) && strings.TrimSpace(record[col]) != "" {
			sample = append(sample, record[col])
		}
	}
	if len(sample) == 0 {
		return storage.Text()
	}

next:
	for _, dt := range candidates {
		for _, cell := range sample {
			if read(dt, cell).IsLeft() {
				continue next
			}
		}
		return dt
	}
	return storage.Text()
}

// read parses one cell as dt. Parse failures become content errors.
func read(dt storage.DataType, cell string) storage.Item[any] {
	if dt.Kind != storage.KindText && strings.TrimSpace(cell) == "" {
		return storage.Invalid[any](EmptyCell)
	}
	switch dt.Kind {
	case storage.KindNumber:
		return widen(storage.ReadNumber(cell))
	case storage.KindBoolean:
		return widen(storage.ReadBoolean(cell))
	case storage.KindDate:
		return widen(storage.ReadDate(cell, dt.Precision))
	}
	return storage.Valid[any](cell)
}

func widen[T any](item storage.Item[T]) storage.Item[any] {
	return either.Map(item, func(v T) any { return v })
}

func columnName(header string, i int) string {
	if name := strings.TrimSpace(header); name != "" {
		return name
	}
	return "column_" + strconv.Itoa(i+1)
}

func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
