package storage_test

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ajitpratap0/gridstore/pkg/storage"
)

// ExampleNumericStorage shows the representation widening on insert and
// narrowing back when the insert is reverted.
func ExampleNumericStorage() {
	s := storage.NewNumeric(storage.DefaultOptions())
	_ = s.AddAll([]storage.Item[decimal.Decimal]{
		storage.Valid(decimal.NewFromInt(5)),
		storage.Valid(decimal.NewFromInt(300)),
	})
	fmt.Println(s.Rung(), s.Filled())

	revert, err := s.InsertRows(1, []storage.Item[decimal.Decimal]{
		storage.Valid(decimal.NewFromInt(5_000_000_000)),
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(s.Rung(), s.Filled())

	revert()
	fmt.Println(s.Rung(), s.Filled())

	// Output:
	// short 2
	// long 3
	// short 2
}

// ExampleBooleanStorage shows a content error kept beside the values.
func ExampleBooleanStorage() {
	s := storage.NewBoolean(storage.DefaultOptions())
	_ = s.AddAll([]storage.Item[bool]{
		storage.Valid(true),
		storage.Invalid[bool]("bad"),
		storage.Valid(false),
	})

	items, _ := s.GetAllCollapsed(0, s.Filled())
	for _, item := range items {
		fmt.Println(item)
	}

	// Output:
	// Right(true)
	// Left(bad)
	// Right(false)
}

// ExampleNewStorage builds a nested column from a type descriptor.
func ExampleNewStorage() {
	dt := storage.RecordOf(
		storage.Field{Name: "id", Type: storage.Number()},
		storage.Field{Name: "tags", Type: storage.ArrayOf(storage.Text())},
	)
	s, err := storage.NewStorage(dt, storage.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(dt)
	fmt.Println(s.Kind())

	// Output:
	// record{id: number, tags: array<text>}
	// record
}
