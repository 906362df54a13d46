package storage

import (
	"strings"
	"time"

	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/pool"
	stringpool "github.com/ajitpratap0/gridstore/pkg/strings"
)

// DatePrecision is the resolution of a temporal column. Values are truncated
// to it on entry, and two values are equal when they agree at it.
type DatePrecision int

const (
	PrecisionDate DatePrecision = iota
	PrecisionYearMonth
	PrecisionTimeOfDay
	PrecisionDateTime
	PrecisionZonedDateTime
)

func (p DatePrecision) String() string {
	switch p {
	case PrecisionDate:
		return "date"
	case PrecisionYearMonth:
		return "year_month"
	case PrecisionTimeOfDay:
		return "time_of_day"
	case PrecisionDateTime:
		return "date_time"
	case PrecisionZonedDateTime:
		return "zoned_date_time"
	}
	return "unknown"
}

// ParsePrecision maps a precision name back to its value.
func ParsePrecision(name string) (DatePrecision, error) {
	for p := PrecisionDate; p <= PrecisionZonedDateTime; p++ {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, errors.Newf(errors.ErrorTypeValidation, "unknown date precision %q", name)
}

var precisionLayouts = map[DatePrecision][]string{
	PrecisionDate:          {"2006-01-02", "2006/01/02"},
	PrecisionYearMonth:     {"2006-01", "2006/01"},
	PrecisionTimeOfDay:     {"15:04:05.999999999", "15:04"},
	PrecisionDateTime:      {"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999", "2006-01-02T15:04"},
	PrecisionZonedDateTime: {time.RFC3339Nano, "2006-01-02 15:04:05.999999999Z07:00"},
}

// Truncate drops everything finer than p. Below zoned precision the location
// is normalised to UTC so that wall-clock values compare field by field.
func (p DatePrecision) Truncate(t time.Time) time.Time {
	switch p {
	case PrecisionDate:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case PrecisionYearMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PrecisionTimeOfDay:
		return time.Date(0, time.January, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	case PrecisionDateTime:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return t
}

// Compare orders two values already truncated to p. Zoned values at the same
// instant but in different zones are distinct; they order by zone offset.
func (p DatePrecision) Compare(a, b time.Time) int {
	if c := a.Compare(b); c != 0 || p != PrecisionZonedDateTime {
		return c
	}
	an, ao := a.Zone()
	bn, bo := b.Zone()
	switch {
	case ao < bo:
		return -1
	case ao > bo:
		return 1
	}
	return strings.Compare(an, bn)
}

// Format renders t at precision p using its first layout.
func (p DatePrecision) Format(t time.Time) string {
	return t.Format(precisionLayouts[p][0])
}

// DateStorage holds temporal values at a fixed precision, deduplicated by a
// pool ordered on the precision's comparator.
type DateStorage struct {
	*Overlay[time.Time]
	precision DatePrecision
	data      *sliceBackend[time.Time]
	pool      *pool.OrderedPool[time.Time]
}

// NewDate creates an empty temporal storage. opts.DatePoolSize bounds the
// pool.
func NewDate(precision DatePrecision, opts Options) *DateStorage {
	p := pool.NewOrderedPool[time.Time]("date_"+precision.String(), opts.DatePoolSize, precision.Compare)
	p.SetCollector(stats())
	intern := func(t time.Time) time.Time {
		return p.Intern(precision.Truncate(t))
	}
	data := newSliceBackend[time.Time](opts.InitialCapacity, intern)
	s := &DateStorage{precision: precision, data: data, pool: p}
	zero := precision.Truncate(time.Time{})
	s.Overlay = newOverlay[time.Time](KindDate, data, zero, coerceTime, opts)
	s.bind(s)
	return s
}

// Precision returns the storage precision.
func (s *DateStorage) Precision() DatePrecision { return s.precision }

// PoolStats reports pool effectiveness.
func (s *DateStorage) PoolStats() pool.Stats { return s.pool.Stats() }

// AddRead parses text at the storage precision and appends it.
func (s *DateStorage) AddRead(text string) (Item[time.Time], error) {
	item := ReadDate(text, s.precision)
	return item, s.AddAll([]Item[time.Time]{item})
}

// ReadDate parses cell text at precision p.
func ReadDate(text string, p DatePrecision) Item[time.Time] {
	trimmed := strings.TrimSpace(text)
	for _, layout := range precisionLayouts[p] {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Valid(p.Truncate(t))
		}
	}
	return Invalid[time.Time](stringpool.Sprintf("cannot parse %q as %s", text, p))
}

func coerceTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t != nil {
			return *t, nil
		}
	}
	return time.Time{}, errors.Newf(errors.ErrorTypeInternal, "expected time.Time, got %T", v)
}
