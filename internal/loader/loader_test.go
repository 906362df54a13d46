package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/gridstore/internal/table"
	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/storage"
	"github.com/ajitpratap0/gridstore/pkg/testutil"
)

const people = `id,name,paid,joined,amount,shift
1,ada,yes,2024-03-05,"1,200.50",09:00
2,bob,no,2024-03-06,7,13:30
3,cy,yes,,abc,17:45
`

func load(t *testing.T, input string, opts Options) *table.Table {
	t.Helper()
	tbl, err := Load(testutil.TestContext(t), strings.NewReader(input), "people", opts)
	require.NoError(t, err)
	return tbl
}

func cells(t *testing.T, tbl *table.Table, name string) []string {
	t.Helper()
	col, ok := tbl.Column(name)
	require.True(t, ok, name)
	items, err := col.Storage().GetAllCollapsedAny(0, tbl.Rows())
	require.NoError(t, err)
	out := make([]string, len(items))
	for i, item := range items {
		if msg, isErr := item.Left(); isErr {
			out[i] = "!" + msg
			continue
		}
		v, _ := item.Right()
		switch v := v.(type) {
		case decimal.Decimal:
			out[i] = v.String()
		case bool:
			out[i] = map[bool]string{true: "T", false: "F"}[v]
		case string:
			out[i] = v
		default:
			out[i] = "?"
		}
	}
	return out
}

func typeOf(t *testing.T, tbl *table.Table, name string) string {
	t.Helper()
	col, ok := tbl.Column(name)
	require.True(t, ok, name)
	return col.DataType().String()
}

func TestLoadInfersColumnTypes(t *testing.T) {
	opts := DefaultOptions()
	opts.SampleSize = 2
	tbl := load(t, people, opts)

	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, "number", typeOf(t, tbl, "id"))
	assert.Equal(t, "text", typeOf(t, tbl, "name"))
	assert.Equal(t, "boolean", typeOf(t, tbl, "paid"))
	assert.Equal(t, "date(date)", typeOf(t, tbl, "joined"))
	assert.Equal(t, "number", typeOf(t, tbl, "amount"))
	assert.Equal(t, "date(time_of_day)", typeOf(t, tbl, "shift"))

	assert.Equal(t, []string{"1", "2", "3"}, cells(t, tbl, "id"))
	assert.Equal(t, []string{"T", "F", "T"}, cells(t, tbl, "paid"))
	assert.Equal(t, []string{"1200.5", "7", `!cannot parse "abc" as number`}, cells(t, tbl, "amount"))

	joined := cells(t, tbl, "joined")
	assert.Equal(t, "!"+EmptyCell, joined[2])
}

func TestLoadFallsBackToText(t *testing.T) {
	tbl := load(t, people, DefaultOptions())

	assert.Equal(t, "text", typeOf(t, tbl, "amount"))
	assert.Equal(t, []string{"1,200.50", "7", "abc"}, cells(t, tbl, "amount"))
}

func TestLoadOtherPrecisions(t *testing.T) {
	input := "month,stamp,zoned,blank\n" +
		"2024-03,2024-03-05T10:00,2024-03-05T10:00:00Z,\n" +
		"2024-04,2024-03-05 11:15:00,2024-03-05T10:00:00+02:00,\n"
	tbl := load(t, input, DefaultOptions())

	assert.Equal(t, "date(year_month)", typeOf(t, tbl, "month"))
	assert.Equal(t, "date(date_time)", typeOf(t, tbl, "stamp"))
	assert.Equal(t, "date(zoned_date_time)", typeOf(t, tbl, "zoned"))
	assert.Equal(t, "text", typeOf(t, tbl, "blank"))
	assert.Equal(t, []string{"", ""}, cells(t, tbl, "blank"))
}

func TestLoadRaggedRows(t *testing.T) {
	logs := testutil.ObservedLogs(t, zapcore.WarnLevel)
	input := "a,b,\n1,x,extra,more\n2\n"
	tbl := load(t, input, DefaultOptions())
	assert.Equal(t, 1, logs.FilterMessage("rows with more cells than the header were truncated").Len())

	require.Len(t, tbl.Columns(), 3)
	assert.Equal(t, "column_3", tbl.Columns()[2].Name())
	assert.Equal(t, []string{"1", "2"}, cells(t, tbl, "a"))
	assert.Equal(t, []string{"x", ""}, cells(t, tbl, "b"))
	assert.Equal(t, []string{"extra", ""}, cells(t, tbl, "column_3"))
}

func TestLoadDelimiter(t *testing.T) {
	opts := DefaultOptions()
	opts.Comma = ';'
	tbl := load(t, "n;flag\n1;true\n2;false\n", opts)

	assert.Equal(t, "number", typeOf(t, tbl, "n"))
	assert.Equal(t, "boolean", typeOf(t, tbl, "flag"))
}

func TestLoadManyRows(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("n\n")
	for i := 0; i < 3*checkEvery+5; i++ {
		sb.WriteString("300\n")
	}
	tbl := load(t, sb.String(), DefaultOptions())
	assert.Equal(t, 3*checkEvery+5, tbl.Rows())

	col, _ := tbl.Column("n")
	assert.Equal(t, storage.RungShort, col.Storage().(*storage.NumericStorage).Rung())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(context.Background(), strings.NewReader(""), "empty", DefaultOptions())
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))

	_, err = Load(context.Background(), strings.NewReader("a,a\n1,2\n"), "dup", DefaultOptions())
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))

	_, err = Load(context.Background(), strings.NewReader("a\n\"unterminated\n"), "bad", DefaultOptions())
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Load(ctx, strings.NewReader(people), "people", DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte(people), 0o600))

	tbl, err := LoadFile(context.Background(), path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "people", tbl.Name())
	assert.Equal(t, 3, tbl.Rows())

	_, err = LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions())
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}
