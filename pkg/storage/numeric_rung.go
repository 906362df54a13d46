package storage

import (
	"math"

	"github.com/shopspring/decimal"
)

// Rung is the backing representation of a numeric storage. A storage only
// ever moves up the ladder Byte -> Short -> Int -> Long -> BigDecimal, except
// when a revert restores the rung it had before the reverted insert.
type Rung int

const (
	RungByte Rung = iota
	RungShort
	RungInt
	RungLong
	// RungBigDecimal keeps the long array and adds a side array of decimals
	// consulted wherever a slot holds SeeBigDecimal.
	RungBigDecimal
)

func (r Rung) String() string {
	switch r {
	case RungByte:
		return "byte"
	case RungShort:
		return "short"
	case RungInt:
		return "int"
	case RungLong:
		return "long"
	case RungBigDecimal:
		return "long+bigdecimal"
	}
	return "unknown"
}

// SeeBigDecimal is the reserved long slot value meaning "read the decimal side
// array at this row". It is never stored as an ordinary integer: the integer
// math.MinInt64 itself is kept in the side array.
const SeeBigDecimal int64 = math.MinInt64

var (
	minLong = decimal.NewFromInt(math.MinInt64)
	maxLong = decimal.NewFromInt(math.MaxInt64)
)

// classify returns the narrowest rung holding d losslessly and, below
// RungBigDecimal, its integer value.
func classify(d decimal.Decimal) (Rung, int64) {
	if !d.Equal(d.Truncate(0)) || d.Cmp(minLong) <= 0 || d.Cmp(maxLong) > 0 {
		return RungBigDecimal, SeeBigDecimal
	}
	v := d.IntPart()
	return rungOf(v), v
}

// rungOf returns the narrowest integer rung whose cast round-trips v.
func rungOf(v int64) Rung {
	switch {
	case v == SeeBigDecimal:
		return RungBigDecimal
	case int64(int8(v)) == v:
		return RungByte
	case int64(int16(v)) == v:
		return RungShort
	case int64(int32(v)) == v:
		return RungInt
	}
	return RungLong
}

// arrayRung maps a rung to the rung owning its backing array.
func arrayRung(r Rung) Rung {
	if r == RungBigDecimal {
		return RungLong
	}
	return r
}
