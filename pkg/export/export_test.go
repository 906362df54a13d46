package export

import (
	"bufio"
	"bytes"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/gridstore/pkg/compression"
	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/storage"
	"github.com/ajitpratap0/gridstore/pkg/testutil"
)

func num(s string) storage.Item[any] {
	return storage.Valid[any](decimal.RequireFromString(s))
}

func val(v any) storage.Item[any] { return storage.Valid(v) }

func bad(msg string) storage.Item[any] { return storage.Invalid[any](msg) }

func sampleSnapshot() *Snapshot {
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	return &Snapshot{
		Table: "orders",
		Rows:  3,
		Columns: []ColumnData{
			{Name: "id", Type: storage.Number(), Items: []storage.Item[any]{num("1"), num("5000000000"), bad("bad id")}},
			{Name: "price", Type: storage.Number(), Items: []storage.Item[any]{num("1.50"), num("2"), num("99999999999999999999")}},
			{Name: "name", Type: storage.Text(), Items: []storage.Item[any]{val("ada"), val(""), val("cy")}},
			{Name: "paid", Type: storage.Boolean(), Items: []storage.Item[any]{val(true), val(false), bad("maybe")}},
			{Name: "day", Type: storage.Date(storage.PrecisionDate), Items: []storage.Item[any]{val(day), val(day.AddDate(0, 0, 1)), val(day)}},
			{Name: "tags", Type: storage.ArrayOf(storage.Text()), Items: []storage.Item[any]{
				val(storage.ListOfValues("a", "b")), val(storage.EmptyList), val(storage.ListOf(bad("x"))),
			}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)
	assert.Equal(t, ".jsonl", f.Extension())

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, Arrow, f)
	assert.Equal(t, ".arrow", f.Extension())

	_, err = ParseFormat("parquet")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func readArrow(t *testing.T, data []byte) *ipc.FileReader {
	t.Helper()
	rdr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	require.NoError(t, err)
	t.Cleanup(func() { rdr.Close() })
	return rdr
}

func TestWriteArrowSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArrow(&buf, sampleSnapshot(), 0))

	rdr := readArrow(t, buf.Bytes())
	schema := rdr.Schema()

	names := make([]string, 0, schema.NumFields())
	for _, f := range schema.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "id__error", "price", "name", "paid", "paid__error", "day", "tags"}, names)

	assert.Equal(t, arrow.INT64, schema.Field(0).Type.ID())
	assert.Equal(t, arrow.STRING, schema.Field(2).Type.ID())
	assert.Equal(t, arrow.BOOL, schema.Field(4).Type.ID())
	assert.Equal(t, arrow.DATE32, schema.Field(6).Type.ID())
	assert.Equal(t, arrow.STRING, schema.Field(7).Type.ID())

	md := schema.Field(7).Metadata
	assert.Equal(t, "array<text>", md.Values()[md.FindKey(MetaType)])
	smd := schema.Metadata()
	assert.Equal(t, "orders", smd.Values()[smd.FindKey(MetaTable)])
}

func TestWriteArrowValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArrow(&buf, sampleSnapshot(), 2))

	rdr := readArrow(t, buf.Bytes())
	require.Equal(t, 2, rdr.NumRecords())

	rec, err := rdr.Record(0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, rec.NumRows())

	ids := rec.Column(0).(*array.Int64)
	assert.Equal(t, int64(1), ids.Value(0))
	assert.Equal(t, int64(5000000000), ids.Value(1))

	prices := rec.Column(2).(*array.String)
	assert.Equal(t, "1.5", prices.Value(0))

	days := rec.Column(6).(*array.Date32)
	assert.Equal(t, "2024-03-06", days.Value(1).ToTime().Format("2006-01-02"))

	tags := rec.Column(7).(*array.String)
	assert.Equal(t, `["a","b"]`, tags.Value(0))
	assert.Equal(t, `[]`, tags.Value(1))

	rec, err = rdr.Record(1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rec.NumRows())

	ids = rec.Column(0).(*array.Int64)
	idErrs := rec.Column(1).(*array.String)
	assert.True(t, ids.IsNull(0))
	assert.Equal(t, "bad id", idErrs.Value(0))

	prices = rec.Column(2).(*array.String)
	assert.Equal(t, "99999999999999999999", prices.Value(0))

	paid := rec.Column(4).(*array.Boolean)
	assert.True(t, paid.IsNull(0))
	assert.Equal(t, "maybe", rec.Column(5).(*array.String).Value(0))

	tags = rec.Column(7).(*array.String)
	assert.Equal(t, `[{"error":"x"}]`, tags.Value(0))
}

func TestWriteArrowTemporalTypes(t *testing.T) {
	at := time.Date(2024, time.March, 5, 13, 30, 15, 0, time.UTC)
	snap := &Snapshot{
		Table: "times",
		Rows:  1,
		Columns: []ColumnData{
			{Name: "tod", Type: storage.Date(storage.PrecisionTimeOfDay), Items: []storage.Item[any]{val(storage.PrecisionTimeOfDay.Truncate(at))}},
			{Name: "ts", Type: storage.Date(storage.PrecisionDateTime), Items: []storage.Item[any]{val(at)}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteArrow(&buf, snap, 10))

	rdr := readArrow(t, buf.Bytes())
	rec, err := rdr.Record(0)
	require.NoError(t, err)

	tod := rec.Column(0).(*array.Time64)
	assert.Equal(t, arrow.Time64((13*time.Hour + 30*time.Minute + 15*time.Second).Nanoseconds()), tod.Value(0))
	ts := rec.Column(1).(*array.Timestamp)
	assert.Equal(t, arrow.Timestamp(at.UnixNano()), ts.Value(0))
}

func TestWriteArrowTimestampOutOfRangeFallsBackToText(t *testing.T) {
	far := time.Date(2300, time.January, 2, 3, 4, 5, 0, time.UTC)
	near := time.Date(2024, time.March, 5, 13, 30, 15, 0, time.UTC)
	snap := &Snapshot{
		Table: "far",
		Rows:  2,
		Columns: []ColumnData{
			{Name: "ts", Type: storage.Date(storage.PrecisionDateTime), Items: []storage.Item[any]{val(near), val(far)}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteArrow(&buf, snap, 10))

	rdr := readArrow(t, buf.Bytes())
	assert.Equal(t, arrow.STRING, rdr.Schema().Field(0).Type.ID())
	rec, err := rdr.Record(0)
	require.NoError(t, err)
	ts := rec.Column(0).(*array.String)
	assert.Equal(t, "2024-03-05T13:30:15", ts.Value(0))
	assert.Equal(t, "2300-01-02T03:04:05", ts.Value(1))
}

func TestFitsInt64(t *testing.T) {
	assert.True(t, fitsInt64(decimal.RequireFromString("9223372036854775807")))
	assert.True(t, fitsInt64(decimal.RequireFromString("2.000")))
	assert.False(t, fitsInt64(decimal.RequireFromString("9223372036854775808")))
	assert.False(t, fitsInt64(decimal.RequireFromString("1.5")))
}

func TestWriteArrowEmpty(t *testing.T) {
	snap := &Snapshot{
		Table:   "empty",
		Columns: []ColumnData{{Name: "n", Type: storage.Number()}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteArrow(&buf, snap, 10))

	rdr := readArrow(t, buf.Bytes())
	assert.Equal(t, 1, rdr.NumRecords())
	assert.Equal(t, arrow.INT64, rdr.Schema().Field(0).Type.ID())
}

func TestWriteJSON(t *testing.T) {
	state := storage.TaggedOf(storage.Case("off"), storage.CaseOf("on", storage.Boolean()))
	rec := storage.RecordOf(storage.Field{Name: "a", Type: storage.Number()})
	snap := &Snapshot{
		Table: "j",
		Rows:  2,
		Columns: []ColumnData{
			{Name: "id", Type: storage.Number(), Items: []storage.Item[any]{num("1"), bad(`no "id"`)}},
			{Name: "when", Type: storage.Date(storage.PrecisionDate), Items: []storage.Item[any]{
				val(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)),
				val(time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC)),
			}},
			{Name: "state", Type: state, Items: []storage.Item[any]{
				val(storage.TaggedValue{Tag: 1, Value: true}),
				val(storage.TaggedValue{Tag: 0}),
			}},
			{Name: "rec", Type: rec, Items: []storage.Item[any]{
				val(storage.Record{"a": decimal.RequireFromString("2.5")}),
				val(storage.Record{"a": decimal.RequireFromString("12345678901234567890.5")}),
			}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, snap))

	scanner := bufio.NewScanner(&buf)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	assert.Equal(t, []string{
		`{"id":1,"when":"2024-03-05","state":{"tag":"on","value":true},"rec":{"a":2.5}}`,
		`{"id":null,"id__error":"no \"id\"","when":"2024-03-06","state":{"tag":"off"},"rec":{"a":12345678901234567890.5}}`,
	}, lines)
}

func TestWriteJSONRejectsMismatchedValues(t *testing.T) {
	snap := &Snapshot{
		Rows:    1,
		Columns: []ColumnData{{Name: "n", Type: storage.Number(), Items: []storage.Item[any]{val("text")}}},
	}
	err := WriteJSON(&bytes.Buffer{}, snap)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
}

func TestWriteCompressed(t *testing.T) {
	testutil.TestLogger(t)
	for _, format := range []Format{Arrow, JSON} {
		var plain bytes.Buffer
		require.NoError(t, Write(&plain, sampleSnapshot(), Options{Format: format}))

		for _, algo := range []compression.Algorithm{compression.Zstd, compression.Snappy, compression.S2, compression.LZ4} {
			t.Run(string(format)+"/"+string(algo), func(t *testing.T) {
				opts := DefaultOptions()
				opts.Format = format
				opts.Compression = algo

				var packed bytes.Buffer
				require.NoError(t, Write(&packed, sampleSnapshot(), opts))

				comp, err := compression.NewCompressor(&compression.Config{Algorithm: algo, Level: opts.Level})
				require.NoError(t, err)
				var out bytes.Buffer
				require.NoError(t, comp.DecompressStream(&out, &packed))
				assert.Equal(t, plain.Bytes(), out.Bytes())
			})
		}
	}
}

func TestErrorCount(t *testing.T) {
	c := sampleSnapshot().Columns
	assert.Equal(t, 1, c[0].ErrorCount())
	assert.Equal(t, 0, c[2].ErrorCount())
}
