package export

import (
	"github.com/ajitpratap0/gridstore/pkg/storage"
)

// Snapshot is a read-only copy of a range of table rows, column by column.
type Snapshot struct {
	Table   string
	Rows    int
	Columns []ColumnData
}

// ColumnData holds one column of a snapshot.
type ColumnData struct {
	Name  string
	Type  storage.DataType
	Items []storage.Item[any]
}

// ErrorCount returns how many cells of the column hold an error.
func (c ColumnData) ErrorCount() int {
	n := 0
	for _, item := range c.Items {
		if item.IsLeft() {
			n++
		}
	}
	return n
}
