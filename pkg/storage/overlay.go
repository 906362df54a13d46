package storage

import (
	"sort"

	"github.com/ajitpratap0/gridstore/pkg/errors"
)

// backend is the concrete value array an Overlay wraps. Its mutations must be
// atomic: on error nothing has changed. Rows holding an error in the overlay
// still occupy a slot in the backend, filled with the type default.
type backend[T any] interface {
	filled() int
	appendValues(values []T) error
	insertValues(index int, values []T) (Revert, error)
	removeValues(index, count int) (Revert, error)
	value(row int) (T, error)
	setValue(row int, v T) error
}

// itemBackend is a backend whose rows can hold an error of their own, such as
// a tagged payload whose record has a field error.
type itemBackend[T any] interface {
	item(row int) (Item[T], error)
}

// Overlay keeps a sparse row -> message map of cell errors on top of a
// backend, shifting it on every structural mutation so that values and
// errors stay aligned. It is the outermost layer every consumer sees.
type Overlay[T any] struct {
	kind   Kind
	data   backend[T]
	zero   T
	coerce func(any) (T, error)

	errs        map[int]string
	latestError int

	immediate bool
	beforeGet BeforeGet
	self      AnyStorage
	view      *ValueView[T]
}

func newOverlay[T any](kind Kind, data backend[T], zero T, coerce func(any) (T, error), opts Options) *Overlay[T] {
	o := &Overlay[T]{
		kind:        kind,
		data:        data,
		zero:        zero,
		coerce:      coerce,
		errs:        make(map[int]string),
		latestError: -1,
		immediate:   opts.ImmediateData,
		beforeGet:   opts.BeforeGet,
	}
	o.self = o
	return o
}

// bind sets the storage handed to the before-get hook when the overlay is
// embedded in a richer type.
func (o *Overlay[T]) bind(outer AnyStorage) {
	o.self = outer
}

// Kind returns the storage family.
func (o *Overlay[T]) Kind() Kind { return o.kind }

// Filled returns the number of rows holding a value or an error.
func (o *Overlay[T]) Filled() int { return o.data.filled() }

// ImmediateData reports whether the storage holds user-entered data.
func (o *Overlay[T]) ImmediateData() bool { return o.immediate }

// Default returns the value stored under an errored row.
func (o *Overlay[T]) Default() T { return o.zero }

// DefaultAny returns Default as any.
func (o *Overlay[T]) DefaultAny() any { return o.zero }

// ErrorAt returns the error recorded at row, if any.
func (o *Overlay[T]) ErrorAt(row int) (string, bool) {
	msg, ok := o.errs[row]
	return msg, ok
}

// ErrorRows returns the rows holding an error, ascending.
func (o *Overlay[T]) ErrorRows() []int {
	rows := make([]int, 0, len(o.errs))
	for row := range o.errs {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	return rows
}

// ErrorCount returns the number of rows holding an error.
func (o *Overlay[T]) ErrorCount() int { return len(o.errs) }

// AddAll appends items; each Left records an error at its new row.
func (o *Overlay[T]) AddAll(items []Item[T]) error {
	if len(items) == 0 {
		return nil
	}
	start := o.data.filled()
	values, failed := o.split(items)
	if err := o.data.appendValues(values); err != nil {
		return err
	}
	for i, msg := range failed {
		o.recordError(start+i, msg)
	}
	stats().RowsMutated(o.kind.String(), "append", len(items))
	return nil
}

// AddAllAny appends type-erased items.
func (o *Overlay[T]) AddAllAny(items []Item[any]) error {
	typed, err := o.typed(items)
	if err != nil {
		return err
	}
	return o.AddAll(typed)
}

// GetAllCollapsed returns rows [from, to) as Left(error) or Right(value).
func (o *Overlay[T]) GetAllCollapsed(from, to int) ([]Item[T], error) {
	if to > from {
		if err := o.runBeforeGet(to-1, nil); err != nil {
			return nil, err
		}
	}
	if err := checkReadRange(from, to, o.Filled()); err != nil {
		return nil, err
	}
	out := make([]Item[T], 0, to-from)
	for row := from; row < to; row++ {
		item, err := o.readItem(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// GetAllCollapsedAny is GetAllCollapsed with values widened to any.
func (o *Overlay[T]) GetAllCollapsedAny(from, to int) ([]Item[any], error) {
	items, err := o.GetAllCollapsed(from, to)
	if err != nil {
		return nil, err
	}
	return widen(items), nil
}

// InsertRows inserts items before index. Errors at or after index move up by
// len(items).
func (o *Overlay[T]) InsertRows(index int, items []Item[T]) (Revert, error) {
	if err := checkInsertIndex(index, o.Filled()); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return noRevert, nil
	}
	count := len(items)
	values, failed := o.split(items)
	revertData, err := o.data.insertValues(index, values)
	if err != nil {
		return nil, err
	}
	o.shiftErrors(index, count)
	for i, msg := range failed {
		o.recordError(index+i, msg)
	}
	stats().RowsMutated(o.kind.String(), "insert", count)

	return func() {
		revertData()
		for i := range failed {
			o.dropError(index + i)
		}
		o.shiftErrors(index+count, -count)
		stats().Revert(o.kind.String())
	}, nil
}

// InsertRowsAny inserts type-erased items.
func (o *Overlay[T]) InsertRowsAny(index int, items []Item[any]) (Revert, error) {
	typed, err := o.typed(items)
	if err != nil {
		return nil, err
	}
	return o.InsertRows(index, typed)
}

// RemoveRows removes rows [index, index+count). Errors inside the span are
// dropped and later errors move down by count.
func (o *Overlay[T]) RemoveRows(index, count int) (Revert, error) {
	if err := checkRemoveRange(index, count, o.Filled()); err != nil {
		return nil, err
	}
	if count == 0 {
		return noRevert, nil
	}
	revertData, err := o.data.removeValues(index, count)
	if err != nil {
		return nil, err
	}

	var removed map[int]string
	if o.latestError >= index {
		for row, msg := range o.errs {
			if row >= index && row < index+count {
				if removed == nil {
					removed = make(map[int]string)
				}
				removed[row] = msg
			}
		}
		for row := range removed {
			delete(o.errs, row)
		}
		if removed != nil {
			o.recomputeLatest()
		}
	}
	o.shiftErrors(index+count, -count)
	stats().RowsMutated(o.kind.String(), "remove", count)

	return func() {
		revertData()
		// shift back before restoring so the restored rows cannot collide
		o.shiftErrors(index, count)
		for row, msg := range removed {
			o.errs[row] = msg
			if row > o.latestError {
				o.latestError = row
			}
		}
		stats().Revert(o.kind.String())
	}, nil
}

// SetAny sets one row from a type-erased item.
func (o *Overlay[T]) SetAny(row int, item Item[any]) error {
	typed, err := o.typed([]Item[any]{item})
	if err != nil {
		return err
	}
	return o.writeItem(row, typed[0])
}

// View returns the cached value view over this storage.
func (o *Overlay[T]) View() *ValueView[T] {
	if o.view == nil {
		o.view = &ValueView[T]{src: o}
	}
	return o.view
}

func (o *Overlay[T]) runBeforeGet(row int, progress ProgressFunc) error {
	if o.beforeGet == nil {
		return nil
	}
	return o.beforeGet(o.self, row, progress)
}

func (o *Overlay[T]) readItem(row int) (Item[T], error) {
	if msg, ok := o.errs[row]; ok {
		return Invalid[T](msg), nil
	}
	if ib, ok := o.data.(itemBackend[T]); ok {
		return ib.item(row)
	}
	v, err := o.data.value(row)
	if err != nil {
		return Item[T]{}, err
	}
	return Valid(v), nil
}

func (o *Overlay[T]) writeItem(row int, item Item[T]) error {
	if err := checkRow(row, o.Filled()); err != nil {
		return err
	}
	if msg, isErr := item.Left(); isErr {
		if err := o.data.setValue(row, o.zero); err != nil {
			return err
		}
		o.recordError(row, msg)
		return nil
	}
	v, _ := item.Right()
	if err := o.data.setValue(row, v); err != nil {
		return err
	}
	o.dropError(row)
	return nil
}

// split replaces every Left with the type default, returning the messages
// keyed by offset within items.
func (o *Overlay[T]) split(items []Item[T]) ([]T, map[int]string) {
	values := make([]T, len(items))
	var failed map[int]string
	for i, item := range items {
		if msg, isErr := item.Left(); isErr {
			if failed == nil {
				failed = make(map[int]string)
			}
			failed[i] = msg
			values[i] = o.zero
			continue
		}
		values[i], _ = item.Right()
	}
	return values, failed
}

func (o *Overlay[T]) typed(items []Item[any]) ([]Item[T], error) {
	out := make([]Item[T], len(items))
	for i, item := range items {
		if msg, isErr := item.Left(); isErr {
			out[i] = Invalid[T](msg)
			continue
		}
		raw, _ := item.Right()
		v, err := o.coerce(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "value does not match column type").
				WithDetail("kind", o.kind.String()).
				WithDetail("offset", i)
		}
		out[i] = Valid(v)
	}
	return out, nil
}

func (o *Overlay[T]) recordError(row int, msg string) {
	o.errs[row] = msg
	if row > o.latestError {
		o.latestError = row
	}
	stats().ContentError(o.kind.String())
}

func (o *Overlay[T]) dropError(row int) {
	if _, ok := o.errs[row]; !ok {
		return
	}
	delete(o.errs, row)
	if row == o.latestError {
		o.recomputeLatest()
	}
}

func (o *Overlay[T]) recomputeLatest() {
	o.latestError = -1
	for r := range o.errs {
		if r > o.latestError {
			o.latestError = r
		}
	}
}

// shiftErrors moves every error at or after from by delta rows. Callers make
// sure no key lands on an occupied row.
func (o *Overlay[T]) shiftErrors(from, delta int) {
	if delta == 0 || o.latestError < from {
		return
	}
	shifted := make(map[int]string, len(o.errs))
	for row, msg := range o.errs {
		if row >= from {
			row += delta
		}
		shifted[row] = msg
	}
	o.errs = shifted
	o.latestError += delta
}

func widen[T any](items []Item[T]) []Item[any] {
	out := make([]Item[any], len(items))
	for i, item := range items {
		if msg, isErr := item.Left(); isErr {
			out[i] = Invalid[any](msg)
			continue
		}
		v, _ := item.Right()
		out[i] = Valid[any](v)
	}
	return out
}
