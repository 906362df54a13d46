package storage

import (
	"github.com/ajitpratap0/gridstore/pkg/errors"
)

// List is the per-row element of an array column: a sized, indexable handle
// onto values owned elsewhere. Rows keep the handle only, never a copy of the
// elements.
type List interface {
	Len() int
	At(i int) (Item[any], error)
}

type sliceList []Item[any]

func (l sliceList) Len() int { return len(l) }

func (l sliceList) At(i int) (Item[any], error) {
	if err := checkRow(i, len(l)); err != nil {
		return Item[any]{}, err
	}
	return l[i], nil
}

// EmptyList is the array default and the placeholder stored under errors.
var EmptyList List = sliceList(nil)

// ListOf wraps items in a List. The slice is retained, not copied.
func ListOf(items ...Item[any]) List {
	return sliceList(items)
}

// ListOfValues wraps plain values as valid items.
func ListOfValues(values ...any) List {
	items := make([]Item[any], len(values))
	for i, v := range values {
		items[i] = Valid(v)
	}
	return sliceList(items)
}

// storageList reads length rows of src starting at offset on demand.
type storageList struct {
	src    AnyStorage
	offset int
	length int
}

func (l storageList) Len() int { return l.length }

func (l storageList) At(i int) (Item[any], error) {
	if err := checkRow(i, l.length); err != nil {
		return Item[any]{}, err
	}
	items, err := l.src.GetAllCollapsedAny(l.offset+i, l.offset+i+1)
	if err != nil {
		return Item[any]{}, err
	}
	return items[0], nil
}

// ListView returns a List over rows [offset, offset+length) of src. The rows
// are read lazily; src must outlive the handle.
func ListView(src AnyStorage, offset, length int) (List, error) {
	if err := checkReadRange(offset, offset+length, src.Filled()); err != nil {
		return nil, err
	}
	return storageList{src: src, offset: offset, length: length}, nil
}

// Collect reads every element of l.
func Collect(l List) ([]Item[any], error) {
	out := make([]Item[any], l.Len())
	for i := range out {
		item, err := l.At(i)
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

// ArrayStorage holds one List handle per row.
type ArrayStorage struct {
	*Overlay[List]
	elem DataType
}

// NewArray creates an empty array storage whose lists carry elem values.
func NewArray(elem DataType, opts Options) *ArrayStorage {
	data := newSliceBackend[List](opts.InitialCapacity, nil)
	s := &ArrayStorage{elem: elem}
	s.Overlay = newOverlay[List](KindArray, data, EmptyList, coerceList, opts)
	s.bind(s)
	return s
}

// Elem returns the element type.
func (s *ArrayStorage) Elem() DataType { return s.elem }

func coerceList(v any) (List, error) {
	switch l := v.(type) {
	case nil:
		return EmptyList, nil
	case List:
		return l, nil
	case []Item[any]:
		return ListOf(l...), nil
	case []any:
		return ListOfValues(l...), nil
	}
	return nil, errors.Newf(errors.ErrorTypeInternal, "expected list, got %T", v)
}
