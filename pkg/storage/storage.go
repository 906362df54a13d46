package storage

import (
	"sync/atomic"

	"github.com/ajitpratap0/gridstore/pkg/either"
	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/metrics"
)

// Item is one cell: a Right value, or a Left message explaining why the
// value is missing or malformed.
type Item[T any] = either.Either[string, T]

// Valid wraps a value as an Item.
func Valid[T any](v T) Item[T] { return either.Right[string](v) }

// Invalid wraps an error message as an Item.
func Invalid[T any](msg string) Item[T] { return either.Left[string, T](msg) }

// Revert exactly undoes the mutation that returned it. Reverts must be run in
// the reverse order of the mutations that produced them.
type Revert func()

// Compose returns a Revert running each of reverts in reverse order.
func Compose(reverts ...Revert) Revert {
	return func() {
		for i := len(reverts) - 1; i >= 0; i-- {
			if reverts[i] != nil {
				reverts[i]()
			}
		}
	}
}

// noRevert is returned by mutations that changed nothing.
func noRevert() {}

// Kind identifies the storage family.
type Kind int

const (
	KindNumber Kind = iota
	KindText
	KindBoolean
	KindDate
	KindArray
	KindRecord
	KindTagged
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	case KindTagged:
		return "tagged"
	}
	return "unknown"
}

// ProgressFunc reports lazy-load progress as rows done out of total.
type ProgressFunc func(done, total int)

// BeforeGet is invoked before a read so that lazily loaded or calculated
// columns can materialise rows up to row. The storage is passed back as a
// capability; an error aborts the read.
type BeforeGet func(s AnyStorage, row int, progress ProgressFunc) error

// AnyStorage is the type-erased view of a column storage used by composite
// storages, the table layer and before-get hooks. Values cross it as any and
// are checked against the storage's type; a mismatch is an internal error.
type AnyStorage interface {
	Kind() Kind
	Filled() int
	ImmediateData() bool
	AddAllAny(items []Item[any]) error
	GetAllCollapsedAny(from, to int) ([]Item[any], error)
	InsertRowsAny(index int, items []Item[any]) (Revert, error)
	RemoveRows(index, count int) (Revert, error)
	SetAny(row int, item Item[any]) error
	DefaultAny() any
}

// ColumnStorage is the contract every column storage implements.
type ColumnStorage[T any] interface {
	AnyStorage
	AddAll(items []Item[T]) error
	GetAllCollapsed(from, to int) ([]Item[T], error)
	InsertRows(index int, items []Item[T]) (Revert, error)
	Default() T
	View() *ValueView[T]
}

// Options configure a storage at construction.
type Options struct {
	// ImmediateData marks user-entered content; reading an errored cell is
	// then a hard invalid-value failure instead of a recoverable one.
	ImmediateData bool
	// BeforeGet runs before reads. Only the outermost storage calls it.
	BeforeGet BeforeGet
	// InitialCapacity preallocates backing arrays.
	InitialCapacity int
	// TextPoolSize bounds the text interning pool; zero disables it.
	TextPoolSize int
	// DatePoolSize bounds the temporal interning pool; zero disables it.
	DatePoolSize int
}

// DefaultOptions returns options suitable for calculated columns.
func DefaultOptions() Options {
	return Options{
		InitialCapacity: 16,
		TextPoolSize:    4096,
		DatePoolSize:    1024,
	}
}

// child returns the options used for storages owned by a composite: the
// before-get hook stays with the outermost storage.
func (o Options) child() Options {
	o.BeforeGet = nil
	return o
}

var collector atomic.Pointer[metrics.Collector]

// SetCollector installs the metrics collector used by every storage. Passing
// nil disables metrics.
func SetCollector(c *metrics.Collector) {
	collector.Store(c)
}

func stats() *metrics.Collector {
	return collector.Load()
}

func checkInsertIndex(index, filled int) error {
	if index < 0 || index > filled {
		return errors.Internal("insert index %d outside [0, %d]", index, filled).
			WithDetail("index", index).
			WithDetail("filled", filled)
	}
	return nil
}

func checkRemoveRange(index, count, filled int) error {
	if index < 0 || count < 0 || index+count > filled {
		return errors.Internal("remove range [%d, %d) outside [0, %d)", index, index+count, filled).
			WithDetail("index", index).
			WithDetail("count", count).
			WithDetail("filled", filled)
	}
	return nil
}

func checkReadRange(from, to, filled int) error {
	if from < 0 || from > to || to > filled {
		return errors.Internal("read range [%d, %d) outside [0, %d)", from, to, filled)
	}
	return nil
}

func checkRow(row, filled int) error {
	if row < 0 || row >= filled {
		return errors.Internal("row %d outside [0, %d)", row, filled).
			WithDetail("row", row)
	}
	return nil
}
