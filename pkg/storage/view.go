package storage

import (
	"github.com/ajitpratap0/gridstore/pkg/errors"
)

// viewSource is what a ValueView reads through.
type viewSource[T any] interface {
	Kind() Kind
	Filled() int
	ImmediateData() bool
	runBeforeGet(row int, progress ProgressFunc) error
	readItem(row int) (Item[T], error)
	writeItem(row int, item Item[T]) error
}

// ValueView is the indexable accessor consumers use to read and edit single
// cells. It is created lazily and cached by its storage.
type ValueView[T any] struct {
	src viewSource[T]
}

// Len returns the number of rows currently filled.
func (v *ValueView[T]) Len() int {
	return v.src.Filled()
}

// Get returns the value at row. A row holding an error fails with an
// ErrorTypeInvalidValue error for user-entered data and with a recoverable
// ErrorTypeCalculation error for calculated data.
func (v *ValueView[T]) Get(row int) (T, error) {
	return v.GetWithProgress(row, nil)
}

// GetWithProgress is Get, passing progress to the before-get hook.
func (v *ValueView[T]) GetWithProgress(row int, progress ProgressFunc) (T, error) {
	var zero T
	item, err := v.item(row, progress)
	if err != nil {
		return zero, err
	}
	if msg, isErr := item.Left(); isErr {
		errType := errors.ErrorTypeCalculation
		if v.src.ImmediateData() {
			errType = errors.ErrorTypeInvalidValue
		}
		return zero, errors.New(errType, msg).
			WithDetail("row", row).
			WithDetail("kind", v.src.Kind().String())
	}
	value, _ := item.Right()
	return value, nil
}

// GetItem returns the row as an Item without mapping errors to Go errors.
func (v *ValueView[T]) GetItem(row int) (Item[T], error) {
	return v.item(row, nil)
}

// Set stores a valid value at row, clearing any error recorded there.
func (v *ValueView[T]) Set(row int, value T) error {
	return v.src.writeItem(row, Valid(value))
}

// SetItem stores an item at row.
func (v *ValueView[T]) SetItem(row int, item Item[T]) error {
	return v.src.writeItem(row, item)
}

func (v *ValueView[T]) item(row int, progress ProgressFunc) (Item[T], error) {
	if err := v.src.runBeforeGet(row, progress); err != nil {
		return Item[T]{}, err
	}
	if err := checkRow(row, v.src.Filled()); err != nil {
		return Item[T]{}, err
	}
	return v.src.readItem(row)
}
