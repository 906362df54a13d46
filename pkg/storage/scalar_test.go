package storage

import (
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTextInternsRepeatedValues(t *testing.T) {
	s := NewText(DefaultOptions())
	buf := []byte("alpha,alpha")
	first := string(buf[:5])
	second := string(buf[6:])

	require.NoError(t, s.AddAll([]Item[string]{Valid(first), Valid(second), Valid("beta")}))

	stats := s.PoolStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, 2, stats.Size)

	a, err := s.View().Get(0)
	require.NoError(t, err)
	b, err := s.View().Get(1)
	require.NoError(t, err)
	assert.Equal(t, "alpha", a)
	assert.Equal(t, unsafe.StringData(a), unsafe.StringData(b))
}

func TestTextWithoutPool(t *testing.T) {
	s := NewText(Options{})
	require.NoError(t, s.AddAll([]Item[string]{Valid("x"), Valid("x")}))
	assert.Equal(t, 0, s.PoolStats().Size)

	revert, err := s.InsertRows(1, []Item[string]{Valid("y")})
	require.NoError(t, err)
	items, err := s.GetAllCollapsed(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []Item[string]{Valid("x"), Valid("y"), Valid("x")}, items)

	revert()
	assert.Equal(t, 2, s.Filled())
}

func TestDatePrecisionTruncates(t *testing.T) {
	ts := time.Date(2024, time.March, 15, 13, 45, 30, 500, time.FixedZone("CET", 3600))

	assert.Equal(t, day(2024, time.March, 15), PrecisionDate.Truncate(ts))
	assert.Equal(t, day(2024, time.March, 1), PrecisionYearMonth.Truncate(ts))
	assert.Equal(t, time.Date(0, time.January, 1, 13, 45, 30, 500, time.UTC), PrecisionTimeOfDay.Truncate(ts))
	assert.Equal(t, time.Date(2024, time.March, 15, 13, 45, 30, 500, time.UTC), PrecisionDateTime.Truncate(ts))
	assert.Equal(t, ts, PrecisionZonedDateTime.Truncate(ts))
}

func TestDatePoolUsesPrecision(t *testing.T) {
	s := NewDate(PrecisionDate, DefaultOptions())
	morning := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, time.May, 1, 20, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddAll([]Item[time.Time]{Valid(morning), Valid(evening)}))
	assert.Equal(t, int64(1), s.PoolStats().Hits)
	assert.Equal(t, 1, s.PoolStats().Size)

	got, err := s.View().Get(1)
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.May, 1), got)
}

func TestZonedComparatorKeepsZones(t *testing.T) {
	utc := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	cet := utc.In(time.FixedZone("CET", 3600))

	assert.Equal(t, 0, PrecisionDateTime.Compare(utc, cet))
	assert.NotEqual(t, 0, PrecisionZonedDateTime.Compare(utc, cet))

	s := NewDate(PrecisionZonedDateTime, DefaultOptions())
	require.NoError(t, s.AddAll([]Item[time.Time]{Valid(utc), Valid(cet)}))
	assert.Equal(t, 2, s.PoolStats().Size)
}

func TestReadDate(t *testing.T) {
	tests := []struct {
		text      string
		precision DatePrecision
		want      time.Time
	}{
		{"2024-02-29", PrecisionDate, day(2024, time.February, 29)},
		{"2024/02/29", PrecisionDate, day(2024, time.February, 29)},
		{"2024-02", PrecisionYearMonth, day(2024, time.February, 1)},
		{"07:30", PrecisionTimeOfDay, time.Date(0, time.January, 1, 7, 30, 0, 0, time.UTC)},
		{"2024-02-29T07:30:15", PrecisionDateTime, time.Date(2024, time.February, 29, 7, 30, 15, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v, ok := ReadDate(tt.text, tt.precision).Right()
			require.True(t, ok)
			assert.True(t, tt.want.Equal(v), "got %v", v)
		})
	}

	zoned, ok := ReadDate("2024-02-29T07:30:00+02:00", PrecisionZonedDateTime).Right()
	require.True(t, ok)
	_, offset := zoned.Zone()
	assert.Equal(t, 7200, offset)

	msg, isErr := ReadDate("yesterday", PrecisionDate).Left()
	assert.True(t, isErr)
	assert.Equal(t, `cannot parse "yesterday" as date`, msg)
}

func TestDateAddRead(t *testing.T) {
	s := NewDate(PrecisionYearMonth, Options{ImmediateData: true})
	_, err := s.AddRead("2023-11")
	require.NoError(t, err)
	item, err := s.AddRead("november")
	require.NoError(t, err)
	assert.True(t, item.IsLeft())
	assert.Equal(t, []int{1}, s.ErrorRows())
	assert.Equal(t, PrecisionYearMonth, s.Precision())
	assert.Equal(t, "2023-11", s.Precision().Format(day(2023, time.November, 1)))
}

func TestParsePrecision(t *testing.T) {
	p, err := ParsePrecision("time_of_day")
	require.NoError(t, err)
	assert.Equal(t, PrecisionTimeOfDay, p)

	_, err = ParsePrecision("week")
	assert.Error(t, err)
}
