package storage

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/logger"
	stringpool "github.com/ajitpratap0/gridstore/pkg/strings"
)

// numericData stores integers in the narrowest of four arrays that holds them
// all; only the array of the active rung is allocated. Non-integral values
// and integers outside the long range live in a decimal side array that is
// only as long as the highest row that needed it.
type numericData struct {
	rung   Rung
	n      int
	bytes  []int8
	shorts []int16
	ints   []int32
	longs  []int64
	bigs   []decimal.Decimal
}

func newNumericData(capacity int) *numericData {
	if capacity < 0 {
		capacity = 0
	}
	return &numericData{rung: RungByte, bytes: make([]int8, 0, capacity)}
}

func (d *numericData) filled() int { return d.n }

func (d *numericData) capacity() int {
	switch arrayRung(d.rung) {
	case RungByte:
		return cap(d.bytes)
	case RungShort:
		return cap(d.shorts)
	case RungInt:
		return cap(d.ints)
	}
	return cap(d.longs)
}

// raw returns the slot at row widened to int64; SeeBigDecimal is preserved.
func (d *numericData) raw(row int) int64 {
	switch arrayRung(d.rung) {
	case RungByte:
		return int64(d.bytes[row])
	case RungShort:
		return int64(d.shorts[row])
	case RungInt:
		return int64(d.ints[row])
	}
	return d.longs[row]
}

func (d *numericData) writeRaw(row int, v int64) {
	switch arrayRung(d.rung) {
	case RungByte:
		d.bytes[row] = int8(v)
	case RungShort:
		d.shorts[row] = int16(v)
	case RungInt:
		d.ints[row] = int32(v)
	default:
		d.longs[row] = v
	}
}

// convertTo rebuilds the backing array for target, copying every slot
// through raw so that SeeBigDecimal survives the move.
func (d *numericData) convertTo(target Rung) {
	if target == d.rung {
		return
	}
	if arrayRung(target) != arrayRung(d.rung) {
		n, c := d.n, d.capacity()
		switch arrayRung(target) {
		case RungByte:
			out := make([]int8, n, c)
			for i := range out {
				out[i] = int8(d.raw(i))
			}
			d.bytes = out
		case RungShort:
			out := make([]int16, n, c)
			for i := range out {
				out[i] = int16(d.raw(i))
			}
			d.shorts = out
		case RungInt:
			out := make([]int32, n, c)
			for i := range out {
				out[i] = int32(d.raw(i))
			}
			d.ints = out
		default:
			out := make([]int64, n, c)
			for i := range out {
				out[i] = d.raw(i)
			}
			d.longs = out
		}
		switch arrayRung(d.rung) {
		case RungByte:
			d.bytes = nil
		case RungShort:
			d.shorts = nil
		case RungInt:
			d.ints = nil
		default:
			d.longs = nil
		}
	}
	if target < RungBigDecimal {
		d.bigs = nil
	}
	d.rung = target
}

// ensureRung widens one rung at a time until need fits.
func (d *numericData) ensureRung(need Rung) {
	for d.rung < need {
		from := d.rung
		d.convertTo(from + 1)
		stats().RungPromotion(from.String(), d.rung.String())
		logger.Debug("numeric storage widened",
			zap.Stringer("from", from),
			zap.Stringer("to", d.rung),
			zap.Int("rows", d.n))
	}
}

// openSlots opens a gap of count zero slots at index in the active array.
func (d *numericData) openSlots(index, count int) {
	switch arrayRung(d.rung) {
	case RungByte:
		d.bytes = openGap(d.bytes, index, count)
	case RungShort:
		d.shorts = openGap(d.shorts, index, count)
	case RungInt:
		d.ints = openGap(d.ints, index, count)
	default:
		d.longs = openGap(d.longs, index, count)
	}
	d.n += count
}

func (d *numericData) closeSlots(index, count int) {
	switch arrayRung(d.rung) {
	case RungByte:
		d.bytes = closeGap(d.bytes, index, count)
	case RungShort:
		d.shorts = closeGap(d.shorts, index, count)
	case RungInt:
		d.ints = closeGap(d.ints, index, count)
	default:
		d.longs = closeGap(d.longs, index, count)
	}
	d.n -= count
}

// sideSpan returns how many side array entries cover rows [index, index+count).
func (d *numericData) sideSpan(index, count int) int {
	if len(d.bigs) <= index {
		return 0
	}
	if rest := len(d.bigs) - index; rest < count {
		return rest
	}
	return count
}

// put writes one classified value. The side array grows to row+1 when a
// decimal lands beyond its end.
func (d *numericData) put(row int, r Rung, long int64, v decimal.Decimal) {
	if r == RungBigDecimal {
		d.longs[row] = SeeBigDecimal
		if len(d.bigs) <= row {
			d.bigs = growFor(d.bigs, row+1-len(d.bigs))
			d.bigs = d.bigs[:row+1]
		}
		d.bigs[row] = v
		return
	}
	d.writeRaw(row, long)
	if row < len(d.bigs) {
		d.bigs[row] = decimal.Decimal{}
	}
}

func classifyAll(values []decimal.Decimal, floor Rung) ([]Rung, []int64, Rung) {
	rungs := make([]Rung, len(values))
	longs := make([]int64, len(values))
	need := floor
	for i, v := range values {
		rungs[i], longs[i] = classify(v)
		if rungs[i] > need {
			need = rungs[i]
		}
	}
	return rungs, longs, need
}

func (d *numericData) appendValues(values []decimal.Decimal) error {
	rungs, longs, need := classifyAll(values, d.rung)
	d.ensureRung(need)
	start := d.n
	d.openSlots(start, len(values))
	for i, v := range values {
		d.put(start+i, rungs[i], longs[i], v)
	}
	return nil
}

func (d *numericData) insertValues(index int, values []decimal.Decimal) (Revert, error) {
	count := len(values)
	oldRung, oldSide := d.rung, len(d.bigs)
	rungs, longs, need := classifyAll(values, d.rung)

	d.ensureRung(need)
	d.openSlots(index, count)
	if d.sideSpan(index, count) > 0 {
		d.bigs = openGap(d.bigs, index, count)
	}
	for i, v := range values {
		d.put(index+i, rungs[i], longs[i], v)
	}

	return func() {
		d.closeSlots(index, count)
		if k := d.sideSpan(index, count); k > 0 {
			d.bigs = closeGap(d.bigs, index, k)
		}
		if len(d.bigs) > oldSide {
			d.bigs = closeGap(d.bigs, oldSide, len(d.bigs)-oldSide)
		}
		if d.rung > oldRung {
			d.convertTo(oldRung)
		}
	}, nil
}

func (d *numericData) removeValues(index, count int) (Revert, error) {
	saved := make([]int64, count)
	for i := range saved {
		saved[i] = d.raw(index + i)
	}
	k := d.sideSpan(index, count)
	var savedSide []decimal.Decimal
	if k > 0 {
		savedSide = make([]decimal.Decimal, k)
		copy(savedSide, d.bigs[index:index+k])
	}

	d.closeSlots(index, count)
	if k > 0 {
		d.bigs = closeGap(d.bigs, index, k)
	}

	return func() {
		d.openSlots(index, count)
		for i, v := range saved {
			d.writeRaw(index+i, v)
		}
		if k > 0 {
			d.bigs = openGap(d.bigs, index, k)
			copy(d.bigs[index:], savedSide)
		}
	}, nil
}

func (d *numericData) value(row int) (decimal.Decimal, error) {
	v := d.raw(row)
	if v == SeeBigDecimal && d.rung == RungBigDecimal {
		if row >= len(d.bigs) {
			return decimal.Decimal{}, errors.Internal("row %d marked decimal beyond side array of %d", row, len(d.bigs))
		}
		return d.bigs[row], nil
	}
	return decimal.NewFromInt(v), nil
}

func (d *numericData) setValue(row int, v decimal.Decimal) error {
	r, long := classify(v)
	d.ensureRung(r)
	d.put(row, r, long, v)
	return nil
}

// NumericStorage is the adaptive-width number column.
type NumericStorage struct {
	*Overlay[decimal.Decimal]
	data *numericData
}

// NewNumeric creates an empty numeric storage at RungByte.
func NewNumeric(opts Options) *NumericStorage {
	data := newNumericData(opts.InitialCapacity)
	s := &NumericStorage{data: data}
	s.Overlay = newOverlay[decimal.Decimal](KindNumber, data, decimal.Zero, coerceNumber, opts)
	s.bind(s)
	return s
}

// Rung returns the active representation.
func (s *NumericStorage) Rung() Rung { return s.data.rung }

// SideEntries returns the length of the decimal side array.
func (s *NumericStorage) SideEntries() int { return len(s.data.bigs) }

// RawLong returns the slot at row widened to int64, exposing SeeBigDecimal.
func (s *NumericStorage) RawLong(row int) (int64, error) {
	if err := checkRow(row, s.Filled()); err != nil {
		return 0, err
	}
	return s.data.raw(row), nil
}

// AddInt appends an integer.
func (s *NumericStorage) AddInt(v int64) error {
	return s.AddAll([]Item[decimal.Decimal]{Valid(decimal.NewFromInt(v))})
}

// AddFloat appends a float using its shortest decimal representation.
func (s *NumericStorage) AddFloat(f float64) error {
	return s.AddAll([]Item[decimal.Decimal]{Valid(decimal.NewFromFloat(f))})
}

// AddRead parses text and appends the result. Text that is not a number is
// appended as a cell error; the returned item tells which happened.
func (s *NumericStorage) AddRead(text string) (Item[decimal.Decimal], error) {
	item := ReadNumber(text)
	return item, s.AddAll([]Item[decimal.Decimal]{item})
}

// GetInt returns the integer at row. Reading an errored row fails like
// ValueView.Get; a non-integral value or one outside int range is a data
// error.
func (s *NumericStorage) GetInt(row int) (int, error) {
	d, err := s.View().Get(row)
	if err != nil {
		return 0, err
	}
	r, long := classify(d)
	if r == RungBigDecimal || int64(int(long)) != long {
		return 0, errors.Newf(errors.ErrorTypeData, "value %s at row %d is not an int", d.String(), row)
	}
	return int(long), nil
}

// ReadNumber parses cell text. Grouping separators are stripped, a 64-bit
// integer parse is attempted first and arbitrary precision decimal second;
// anything else becomes an Invalid item.
func ReadNumber(text string) Item[decimal.Decimal] {
	cleaned := stringpool.StripGrouping(strings.TrimSpace(text))
	if cleaned == "" {
		return Invalid[decimal.Decimal](stringpool.Sprintf("cannot parse %q as number", text))
	}
	if v, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return Valid(decimal.NewFromInt(v))
	}
	if d, err := decimal.NewFromString(cleaned); err == nil {
		return Valid(d)
	}
	return Invalid[decimal.Decimal](stringpool.Sprintf("cannot parse %q as number", text))
}

func coerceNumber(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case *decimal.Decimal:
		if n != nil {
			return *n, nil
		}
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int8:
		return decimal.NewFromInt(int64(n)), nil
	case int16:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case uint8:
		return decimal.NewFromInt(int64(n)), nil
	case uint16:
		return decimal.NewFromInt(int64(n)), nil
	case uint32:
		return decimal.NewFromInt(int64(n)), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case *big.Int:
		if n != nil {
			return decimal.NewFromBigInt(n, 0), nil
		}
	}
	return decimal.Decimal{}, errors.Newf(errors.ErrorTypeInternal, "expected number, got %T", v)
}
