package export

import (
	"io"
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/json"
	"github.com/ajitpratap0/gridstore/pkg/logger"
	"github.com/ajitpratap0/gridstore/pkg/storage"
)

// Metadata keys attached to the Arrow schema.
const (
	MetaTable = "gridstore.table"
	MetaType  = "gridstore.type"
)

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)

	// instants a nanosecond timestamp can hold, roughly 1677 to 2262
	minTimestamp = time.Unix(0, math.MinInt64)
	maxTimestamp = time.Unix(0, math.MaxInt64)
)

// arrowColumn maps one snapshot column onto one or two Arrow fields.
type arrowColumn struct {
	data     ColumnData
	typ      arrow.DataType
	value    int
	errField int // -1 when the column has no errors
}

// WriteArrow writes snap as an Arrow IPC file in batches of batchSize rows.
// Errored cells are null; their messages go to a companion string column.
func WriteArrow(w io.Writer, snap *Snapshot, batchSize int) error {
	if batchSize <= 0 {
		batchSize = DefaultOptions().BatchSize
	}
	cols, schema := arrowSchema(snap)

	mem := memory.NewGoAllocator()
	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "create arrow writer")
	}
	rb := array.NewRecordBuilder(mem, schema)
	defer rb.Release()

	batches := 0
	for from := 0; ; from += batchSize {
		to := min(from+batchSize, snap.Rows)
		for _, c := range cols {
			if err := c.appendRows(rb, from, to); err != nil {
				fw.Close()
				return err
			}
		}
		rec := rb.NewRecord()
		err := fw.Write(rec)
		rec.Release()
		if err != nil {
			fw.Close()
			return errors.Wrap(err, errors.ErrorTypeFile, "write arrow batch")
		}
		batches++
		if to >= snap.Rows {
			break
		}
	}
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "close arrow writer")
	}
	logger.Debug("arrow export written",
		zap.String("table", snap.Table),
		zap.Int("rows", snap.Rows),
		zap.Int("batches", batches))
	return nil
}

func arrowSchema(snap *Snapshot) ([]arrowColumn, *arrow.Schema) {
	cols := make([]arrowColumn, len(snap.Columns))
	fields := make([]arrow.Field, 0, len(snap.Columns))
	for i, c := range snap.Columns {
		cols[i] = arrowColumn{data: c, typ: arrowType(c), value: len(fields), errField: -1}
		fields = append(fields, arrow.Field{
			Name:     c.Name,
			Type:     cols[i].typ,
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{MetaType}, []string{c.Type.String()}),
		})
		if c.ErrorCount() > 0 {
			cols[i].errField = len(fields)
			fields = append(fields, arrow.Field{
				Name:     c.Name + ErrorSuffix,
				Type:     arrow.BinaryTypes.String,
				Nullable: true,
			})
		}
	}
	md := arrow.NewMetadata([]string{MetaTable}, []string{snap.Table})
	return cols, arrow.NewSchema(fields, &md)
}

// arrowType picks the Arrow type for a column. Numbers are Int64 only when
// every valid value is an integer in int64 range; otherwise exact decimal text.
// Date-times outside the nanosecond timestamp range fall back to text too.
func arrowType(c ColumnData) arrow.DataType {
	switch c.Type.Kind {
	case storage.KindNumber:
		for _, item := range c.Items {
			v, ok := item.Right()
			if !ok {
				continue
			}
			if d, ok := v.(decimal.Decimal); !ok || !fitsInt64(d) {
				return arrow.BinaryTypes.String
			}
		}
		return arrow.PrimitiveTypes.Int64
	case storage.KindBoolean:
		return arrow.FixedWidthTypes.Boolean
	case storage.KindDate:
		switch c.Type.Precision {
		case storage.PrecisionDate, storage.PrecisionYearMonth:
			return arrow.FixedWidthTypes.Date32
		case storage.PrecisionTimeOfDay:
			return arrow.FixedWidthTypes.Time64ns
		}
		for _, item := range c.Items {
			v, ok := item.Right()
			if !ok {
				continue
			}
			if t, ok := v.(time.Time); !ok || !fitsTimestamp(t) {
				return arrow.BinaryTypes.String
			}
		}
		return arrow.FixedWidthTypes.Timestamp_ns
	}
	return arrow.BinaryTypes.String
}

func fitsInt64(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0)) && d.GreaterThanOrEqual(minInt64) && d.LessThanOrEqual(maxInt64)
}

func fitsTimestamp(t time.Time) bool {
	return !t.Before(minTimestamp) && !t.After(maxTimestamp)
}

func (c arrowColumn) appendRows(rb *array.RecordBuilder, from, to int) error {
	b := rb.Field(c.value)
	var eb *array.StringBuilder
	if c.errField >= 0 {
		eb = rb.Field(c.errField).(*array.StringBuilder)
	}
	for row := from; row < to; row++ {
		item := c.data.Items[row]
		if msg, isErr := item.Left(); isErr {
			b.AppendNull()
			eb.Append(msg)
			continue
		}
		if eb != nil {
			eb.AppendNull()
		}
		v, _ := item.Right()
		if err := c.appendValue(b, v); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "export cell").
				WithDetail("column", c.data.Name).
				WithDetail("row", row)
		}
	}
	return nil
}

func (c arrowColumn) appendValue(b array.Builder, v any) error {
	dt := c.data.Type
	switch b := b.(type) {
	case *array.Int64Builder:
		b.Append(v.(decimal.Decimal).IntPart())
	case *array.BooleanBuilder:
		bv, ok := v.(bool)
		if !ok {
			return mismatch(dt, v)
		}
		b.Append(bv)
	case *array.Date32Builder:
		t, ok := v.(time.Time)
		if !ok {
			return mismatch(dt, v)
		}
		b.Append(arrow.Date32FromTime(t))
	case *array.Time64Builder:
		t, ok := v.(time.Time)
		if !ok {
			return mismatch(dt, v)
		}
		since := time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second +
			time.Duration(t.Nanosecond())
		b.Append(arrow.Time64(since.Nanoseconds()))
	case *array.TimestampBuilder:
		t, ok := v.(time.Time)
		if !ok {
			return mismatch(dt, v)
		}
		if !fitsTimestamp(t) {
			return errors.Newf(errors.ErrorTypeData, "%s is outside the nanosecond timestamp range", t.Format(time.RFC3339))
		}
		b.Append(arrow.Timestamp(t.UnixNano()))
	case *array.StringBuilder:
		s, err := c.text(v)
		if err != nil {
			return err
		}
		b.Append(s)
	default:
		return errors.Internal("unsupported arrow builder %T", b)
	}
	return nil
}

// text renders a value stored in a string column.
func (c arrowColumn) text(v any) (string, error) {
	switch c.data.Type.Kind {
	case storage.KindText:
		s, ok := v.(string)
		if !ok {
			return "", mismatch(c.data.Type, v)
		}
		return s, nil
	case storage.KindNumber:
		d, ok := v.(decimal.Decimal)
		if !ok {
			return "", mismatch(c.data.Type, v)
		}
		return d.String(), nil
	case storage.KindDate:
		t, ok := v.(time.Time)
		if !ok {
			return "", mismatch(c.data.Type, v)
		}
		return c.data.Type.Precision.Format(t), nil
	}
	plain, err := toPlain(c.data.Type, v)
	if err != nil {
		return "", err
	}
	encoded, err := json.Marshal(plain)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
