package storage

import (
	"slices"

	"go.uber.org/zap"

	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/logger"
)

// Record is one row of a record column keyed by field name. A field value may
// be an Item[any] to carry an error for that field alone.
type Record map[string]any

// RecordStorage stores a record column field-major: one child storage per
// field. A row error is recorded in every field so that it reads the same
// through any of them.
type RecordStorage struct {
	fields    []Field
	children  []AnyStorage
	index     map[string]int
	bare      []Item[Record] // rows when there are no fields
	immediate bool
	beforeGet BeforeGet
	view      *ValueView[Record]
}

// NewRecord builds a record storage and its field storages. Duplicate field
// names are an internal error.
func NewRecord(fields []Field, opts Options) (*RecordStorage, error) {
	s := &RecordStorage{
		fields:    fields,
		children:  make([]AnyStorage, len(fields)),
		index:     make(map[string]int, len(fields)),
		immediate: opts.ImmediateData,
		beforeGet: opts.BeforeGet,
	}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			return nil, errors.Internal("duplicate record field %q", f.Name).
				WithDetail("field", f.Name)
		}
		s.index[f.Name] = i
		child, err := NewStorage(f.Type, opts.child())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "cannot build record field").
				WithDetail("field", f.Name)
		}
		s.children[i] = child
	}
	return s, nil
}

// Kind returns KindRecord.
func (s *RecordStorage) Kind() Kind { return KindRecord }

// Fields returns the declared fields in order.
func (s *RecordStorage) Fields() []Field { return s.fields }

// Field returns the storage of the named field.
func (s *RecordStorage) Field(name string) (AnyStorage, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.children[i], true
}

// Filled returns the smallest filled count across fields.
func (s *RecordStorage) Filled() int {
	if len(s.children) == 0 {
		return len(s.bare)
	}
	n := s.children[0].Filled()
	for _, c := range s.children[1:] {
		if f := c.Filled(); f < n {
			n = f
		}
	}
	return n
}

// ImmediateData reports whether the storage holds user-entered data.
func (s *RecordStorage) ImmediateData() bool { return s.immediate }

// Default returns a record holding every field's default.
func (s *RecordStorage) Default() Record {
	rec := make(Record, len(s.fields))
	for i, f := range s.fields {
		rec[f.Name] = s.children[i].DefaultAny()
	}
	return rec
}

// DefaultAny returns Default as any.
func (s *RecordStorage) DefaultAny() any { return s.Default() }

// View returns the cached value view.
func (s *RecordStorage) View() *ValueView[Record] {
	if s.view == nil {
		s.view = &ValueView[Record]{src: s}
	}
	return s.view
}

// AddAll appends records, fanning each out to the fields.
func (s *RecordStorage) AddAll(items []Item[Record]) error {
	_, err := s.InsertRows(s.Filled(), items)
	return err
}

// AddAllAny appends type-erased records.
func (s *RecordStorage) AddAllAny(items []Item[any]) error {
	typed, err := s.typed(items)
	if err != nil {
		return err
	}
	return s.AddAll(typed)
}

// InsertRows inserts records before index in every field. If a field fails,
// the fields already mutated are reverted before the error is returned.
func (s *RecordStorage) InsertRows(index int, items []Item[Record]) (Revert, error) {
	if err := checkInsertIndex(index, s.Filled()); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return noRevert, nil
	}
	columns, err := s.fanOut(items)
	if err != nil {
		return nil, err
	}
	if len(s.children) == 0 {
		return s.insertBare(index, items), nil
	}
	revert, err := s.each("insert", func(c AnyStorage, i int) (Revert, error) {
		return c.InsertRowsAny(index, columns[i])
	})
	if err != nil {
		return nil, err
	}
	stats().RowsMutated(KindRecord.String(), "insert", len(items))
	return revert, nil
}

// InsertRowsAny inserts type-erased records.
func (s *RecordStorage) InsertRowsAny(index int, items []Item[any]) (Revert, error) {
	typed, err := s.typed(items)
	if err != nil {
		return nil, err
	}
	return s.InsertRows(index, typed)
}

// RemoveRows removes rows [index, index+count) from every field.
func (s *RecordStorage) RemoveRows(index, count int) (Revert, error) {
	if err := checkRemoveRange(index, count, s.Filled()); err != nil {
		return nil, err
	}
	if count == 0 {
		return noRevert, nil
	}
	if len(s.children) == 0 {
		saved := slices.Clone(s.bare[index : index+count])
		s.bare = slices.Delete(s.bare, index, index+count)
		return func() { s.bare = slices.Insert(s.bare, index, saved...) }, nil
	}
	revert, err := s.each("remove", func(c AnyStorage, _ int) (Revert, error) {
		return c.RemoveRows(index, count)
	})
	if err != nil {
		return nil, err
	}
	stats().RowsMutated(KindRecord.String(), "remove", count)
	return revert, nil
}

// each applies op to every field, collecting reverts. If op fails or panics,
// the reverts collected so far run in reverse order.
func (s *RecordStorage) each(op string, apply func(c AnyStorage, i int) (Revert, error)) (Revert, error) {
	reverts := make([]Revert, 0, len(s.children))
	done := false
	defer func() {
		if done {
			return
		}
		Compose(reverts...)()
		logger.Debug("record fan-out rolled back",
			zap.String("op", op),
			zap.Int("fields_reverted", len(reverts)))
	}()
	for i, c := range s.children {
		r, err := apply(c, i)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "record fan-out failed").
				WithDetail("field", s.fields[i].Name).
				WithDetail("op", op)
		}
		reverts = append(reverts, r)
	}
	done = true
	return Compose(reverts...), nil
}

// GetAllCollapsed returns rows [from, to). A row reads as Left when any field
// holds an error there.
func (s *RecordStorage) GetAllCollapsed(from, to int) ([]Item[Record], error) {
	if to > from {
		if err := s.runBeforeGet(to-1, nil); err != nil {
			return nil, err
		}
	}
	if err := checkReadRange(from, to, s.Filled()); err != nil {
		return nil, err
	}
	if len(s.children) == 0 {
		return slices.Clone(s.bare[from:to]), nil
	}
	columns := make([][]Item[any], len(s.children))
	for i, c := range s.children {
		items, err := c.GetAllCollapsedAny(from, to)
		if err != nil {
			return nil, err
		}
		columns[i] = items
	}
	out := make([]Item[Record], to-from)
	for r := range out {
		out[r] = s.assemble(columns, r)
	}
	return out, nil
}

// GetAllCollapsedAny is GetAllCollapsed with records widened to any.
func (s *RecordStorage) GetAllCollapsedAny(from, to int) ([]Item[any], error) {
	items, err := s.GetAllCollapsed(from, to)
	if err != nil {
		return nil, err
	}
	return widen(items), nil
}

// SetAny sets one row from a type-erased item.
func (s *RecordStorage) SetAny(row int, item Item[any]) error {
	typed, err := s.typed([]Item[any]{item})
	if err != nil {
		return err
	}
	return s.writeItem(row, typed[0])
}

func (s *RecordStorage) assemble(columns [][]Item[any], r int) Item[Record] {
	rec := make(Record, len(s.fields))
	for i, f := range s.fields {
		item := columns[i][r]
		if msg, isErr := item.Left(); isErr {
			return Invalid[Record](msg)
		}
		rec[f.Name], _ = item.Right()
	}
	return Valid(rec)
}

func (s *RecordStorage) runBeforeGet(row int, progress ProgressFunc) error {
	if s.beforeGet == nil {
		return nil
	}
	return s.beforeGet(s, row, progress)
}

func (s *RecordStorage) readItem(row int) (Item[Record], error) {
	if len(s.children) == 0 {
		return s.bare[row], nil
	}
	columns := make([][]Item[any], len(s.children))
	for i, c := range s.children {
		items, err := c.GetAllCollapsedAny(row, row+1)
		if err != nil {
			return Item[Record]{}, err
		}
		columns[i] = items
	}
	return s.assemble(columns, 0), nil
}

func (s *RecordStorage) writeItem(row int, item Item[Record]) error {
	if err := checkRow(row, s.Filled()); err != nil {
		return err
	}
	columns, err := s.fanOut([]Item[Record]{item})
	if err != nil {
		return err
	}
	if len(s.children) == 0 {
		s.bare[row] = bareItem(item)
		return nil
	}
	for i, c := range s.children {
		if err := c.SetAny(row, columns[i][0]); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "record set failed").
				WithDetail("field", s.fields[i].Name)
		}
	}
	return nil
}

// insertBare keeps each row's error for a record without fields; valid rows
// all read as the empty record.
func (s *RecordStorage) insertBare(index int, items []Item[Record]) Revert {
	rows := make([]Item[Record], len(items))
	for i, item := range items {
		rows[i] = bareItem(item)
	}
	s.bare = slices.Insert(s.bare, index, rows...)
	count := len(items)
	return func() { s.bare = slices.Delete(s.bare, index, index+count) }
}

func bareItem(item Item[Record]) Item[Record] {
	if msg, isErr := item.Left(); isErr {
		return Invalid[Record](msg)
	}
	return Valid(Record{})
}

// fanOut splits records into one item column per field. A Left row becomes
// the same Left in every field; a missing field takes the field default.
func (s *RecordStorage) fanOut(items []Item[Record]) ([][]Item[any], error) {
	columns := make([][]Item[any], len(s.children))
	for i := range columns {
		columns[i] = make([]Item[any], len(items))
	}
	for r, item := range items {
		if msg, isErr := item.Left(); isErr {
			for i := range columns {
				columns[i][r] = Invalid[any](msg)
			}
			continue
		}
		rec, _ := item.Right()
		for name := range rec {
			if _, ok := s.index[name]; !ok {
				return nil, errors.Internal("record has no field %q", name).
					WithDetail("offset", r)
			}
		}
		for i, f := range s.fields {
			v, ok := rec[f.Name]
			if !ok {
				v = s.children[i].DefaultAny()
			}
			if fieldItem, isItem := v.(Item[any]); isItem {
				columns[i][r] = fieldItem
			} else {
				columns[i][r] = Valid(v)
			}
		}
	}
	return columns, nil
}

func (s *RecordStorage) typed(items []Item[any]) ([]Item[Record], error) {
	out := make([]Item[Record], len(items))
	for i, item := range items {
		if msg, isErr := item.Left(); isErr {
			out[i] = Invalid[Record](msg)
			continue
		}
		raw, _ := item.Right()
		rec, err := coerceRecord(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "value does not match column type").
				WithDetail("kind", KindRecord.String()).
				WithDetail("offset", i)
		}
		out[i] = Valid(rec)
	}
	return out, nil
}

func coerceRecord(v any) (Record, error) {
	switch r := v.(type) {
	case Record:
		return r, nil
	case map[string]any:
		return Record(r), nil
	}
	return nil, errors.Newf(errors.ErrorTypeInternal, "expected record, got %T", v)
}
