package storage

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajitpratap0/gridstore/pkg/errors"
)

// DataType describes the semantic type of a column. Composite types nest.
type DataType struct {
	Kind      Kind
	Precision DatePrecision // KindDate
	Elem      *DataType     // KindArray
	Fields    []Field       // KindRecord
	Cases     []TagCase     // KindTagged
}

// Field is a named record field.
type Field struct {
	Name string
	Type DataType
}

// TagCase is one alternative of a tagged type. Inner is nil for cases that
// carry no value.
type TagCase struct {
	Name  string
	Inner *DataType
}

func Number() DataType { return DataType{Kind: KindNumber} }

func Text() DataType { return DataType{Kind: KindText} }

func Boolean() DataType { return DataType{Kind: KindBoolean} }

func Date(p DatePrecision) DataType { return DataType{Kind: KindDate, Precision: p} }

func ArrayOf(elem DataType) DataType { return DataType{Kind: KindArray, Elem: &elem} }

func RecordOf(fields ...Field) DataType { return DataType{Kind: KindRecord, Fields: fields} }

func TaggedOf(cases ...TagCase) DataType { return DataType{Kind: KindTagged, Cases: cases} }

// Case declares a tag case without payload.
func Case(name string) TagCase { return TagCase{Name: name} }

// CaseOf declares a tag case carrying inner.
func CaseOf(name string, inner DataType) TagCase { return TagCase{Name: name, Inner: &inner} }

// String renders the type, e.g. record{a: number, b: array<text>}.
func (dt DataType) String() string {
	switch dt.Kind {
	case KindDate:
		return "date(" + dt.Precision.String() + ")"
	case KindArray:
		if dt.Elem == nil {
			return "array<any>"
		}
		return "array<" + dt.Elem.String() + ">"
	case KindRecord:
		parts := make([]string, len(dt.Fields))
		for i, f := range dt.Fields {
			parts[i] = f.Name + ": " + f.Type.String()
		}
		return "record{" + strings.Join(parts, ", ") + "}"
	case KindTagged:
		parts := make([]string, len(dt.Cases))
		for i, c := range dt.Cases {
			parts[i] = c.Name
			if c.Inner != nil {
				parts[i] += "(" + c.Inner.String() + ")"
			}
		}
		return "tagged{" + strings.Join(parts, " | ") + "}"
	}
	return dt.Kind.String()
}

// NewStorage builds the storage for dt, recursing into composite types.
func NewStorage(dt DataType, opts Options) (AnyStorage, error) {
	switch dt.Kind {
	case KindNumber:
		return NewNumeric(opts), nil
	case KindText:
		return NewText(opts), nil
	case KindBoolean:
		return NewBoolean(opts), nil
	case KindDate:
		return NewDate(dt.Precision, opts), nil
	case KindArray:
		elem := DataType{Kind: KindText}
		if dt.Elem != nil {
			elem = *dt.Elem
		}
		return NewArray(elem, opts), nil
	case KindRecord:
		s, err := NewRecord(dt.Fields, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindTagged:
		s, err := NewTagged(dt.Cases, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, errors.Internal("unknown data type kind %d", int(dt.Kind))
}

var (
	_ ColumnStorage[decimal.Decimal] = (*NumericStorage)(nil)
	_ ColumnStorage[bool]            = (*BooleanStorage)(nil)
	_ ColumnStorage[string]          = (*TextStorage)(nil)
	_ ColumnStorage[time.Time]       = (*DateStorage)(nil)
	_ ColumnStorage[List]            = (*ArrayStorage)(nil)
	_ ColumnStorage[Record]          = (*RecordStorage)(nil)
	_ ColumnStorage[TaggedValue]     = (*TaggedStorage)(nil)
)
