// Package table groups column storages into a table whose columns share a
// row count. Structural edits fan out to every column and roll back in
// reverse order when a column fails.
package table

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/export"
	"github.com/ajitpratap0/gridstore/pkg/logger"
	"github.com/ajitpratap0/gridstore/pkg/storage"
)

// Column owns one storage exclusively.
type Column struct {
	name  string
	dt    storage.DataType
	store storage.AnyStorage
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// DataType returns the column type.
func (c *Column) DataType() storage.DataType { return c.dt }

// Storage returns the column storage.
func (c *Column) Storage() storage.AnyStorage { return c.store }

// Row maps column names to cells. Columns missing from a row get their
// default value.
type Row map[string]storage.Item[any]

// Values builds a Row of valid cells.
func Values(values map[string]any) Row {
	row := make(Row, len(values))
	for name, v := range values {
		row[name] = storage.Valid(v)
	}
	return row
}

// Table is an ordered set of columns. It is not safe for concurrent
// mutation.
type Table struct {
	name    string
	opts    storage.Options
	columns []*Column
	index   map[string]int
	rows    int
	log     *zap.Logger
}

// New creates an empty table; opts apply to every column it creates.
func New(name string, opts storage.Options) *Table {
	return &Table{
		name:  name,
		opts:  opts,
		index: make(map[string]int),
		log:   logger.With(zap.String("table", name)),
	}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Rows returns the row count shared by every column.
func (t *Table) Rows() int { return t.rows }

// Columns returns the columns in order.
func (t *Table) Columns() []*Column { return t.columns }

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// AddColumn appends a column. Existing rows read as the column default.
func (t *Table) AddColumn(name string, dt storage.DataType) (*Column, error) {
	if _, exists := t.index[name]; exists {
		return nil, errors.Internal("column %q already exists", name).
			WithDetail("table", t.name)
	}
	store, err := storage.NewStorage(dt, t.opts)
	if err != nil {
		return nil, err
	}
	if t.rows > 0 {
		fill := make([]storage.Item[any], t.rows)
		for i := range fill {
			fill[i] = storage.Valid(store.DefaultAny())
		}
		if err := store.AddAllAny(fill); err != nil {
			return nil, err
		}
	}

	col := &Column{name: name, dt: dt, store: store}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, col)
	t.log.Debug("column added", zap.String("column", name), zap.Stringer("type", dt))
	return col, nil
}

// AppendRow appends one row.
func (t *Table) AppendRow(row Row) error {
	_, err := t.InsertRows(t.rows, []Row{row})
	return err
}

// InsertRows inserts rows before index in every column.
func (t *Table) InsertRows(index int, rows []Row) (storage.Revert, error) {
	if index < 0 || index > t.rows {
		return nil, errors.Internal("insert index %d outside [0, %d]", index, t.rows)
	}
	if len(rows) == 0 {
		return func() {}, nil
	}
	columns, err := t.split(rows)
	if err != nil {
		return nil, err
	}

	count := len(rows)
	revert, err := t.each("insert", func(i int, c *Column) (storage.Revert, error) {
		return c.store.InsertRowsAny(index, columns[i])
	})
	if err != nil {
		return nil, err
	}
	t.rows += count
	return func() {
		revert()
		t.rows -= count
	}, nil
}

// RemoveRows removes rows [index, index+count) from every column.
func (t *Table) RemoveRows(index, count int) (storage.Revert, error) {
	if index < 0 || count < 0 || index+count > t.rows {
		return nil, errors.Internal("remove range [%d, %d) outside [0, %d)", index, index+count, t.rows)
	}
	revert, err := t.each("remove", func(_ int, c *Column) (storage.Revert, error) {
		return c.store.RemoveRows(index, count)
	})
	if err != nil {
		return nil, err
	}
	t.rows -= count
	return func() {
		revert()
		t.rows += count
	}, nil
}

// each applies op to every column and composes the reverts. On failure the
// columns already changed are reverted in reverse order.
func (t *Table) each(op string, apply func(i int, c *Column) (storage.Revert, error)) (storage.Revert, error) {
	reverts := make([]storage.Revert, 0, len(t.columns))
	for i, c := range t.columns {
		r, err := apply(i, c)
		if err != nil {
			storage.Compose(reverts...)()
			t.log.Warn("table edit rolled back",
				zap.String("op", op),
				zap.String("column", c.name),
				zap.Error(err))
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "table edit failed").
				WithDetail("column", c.name)
		}
		reverts = append(reverts, r)
	}
	return storage.Compose(reverts...), nil
}

func (t *Table) split(rows []Row) ([][]storage.Item[any], error) {
	columns := make([][]storage.Item[any], len(t.columns))
	for i := range columns {
		columns[i] = make([]storage.Item[any], len(rows))
	}
	for r, row := range rows {
		for name := range row {
			if _, ok := t.index[name]; !ok {
				return nil, errors.Internal("table %q has no column %q", t.name, name)
			}
		}
		for i, c := range t.columns {
			item, ok := row[c.name]
			if !ok {
				item = storage.Valid(c.store.DefaultAny())
			}
			columns[i][r] = item
		}
	}
	return columns, nil
}

// Snapshot copies rows [from, to) out of every column.
func (t *Table) Snapshot(from, to int) (*export.Snapshot, error) {
	if from < 0 || from > to || to > t.rows {
		return nil, errors.Internal("snapshot range [%d, %d) outside [0, %d)", from, to, t.rows)
	}
	snap := &export.Snapshot{
		Table:   t.name,
		Rows:    to - from,
		Columns: make([]export.ColumnData, len(t.columns)),
	}
	for i, c := range t.columns {
		items, err := c.store.GetAllCollapsedAny(from, to)
		if err != nil {
			return nil, err
		}
		snap.Columns[i] = export.ColumnData{Name: c.name, Type: c.dt, Items: items}
	}
	return snap, nil
}

// ColumnStats summarises one column.
type ColumnStats struct {
	Name   string
	Type   string
	Rows   int
	Errors int
	// Rung is the numeric representation; empty for other kinds.
	Rung string
}

// Stats summarises every column.
func (t *Table) Stats() ([]ColumnStats, error) {
	snap, err := t.Snapshot(0, t.rows)
	if err != nil {
		return nil, err
	}
	out := make([]ColumnStats, len(t.columns))
	for i, c := range t.columns {
		out[i] = ColumnStats{
			Name:   c.name,
			Type:   c.dt.String(),
			Rows:   c.store.Filled(),
			Errors: snap.Columns[i].ErrorCount(),
		}
		if n, ok := c.store.(*storage.NumericStorage); ok {
			out[i].Rung = n.Rung().String()
		}
	}
	return out, nil
}
