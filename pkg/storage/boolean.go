package storage

import (
	"strings"

	"github.com/ajitpratap0/gridstore/pkg/errors"
	stringpool "github.com/ajitpratap0/gridstore/pkg/strings"
)

// boolData packs values 64 to a word.
type boolData struct {
	words []uint64
	n     int
}

func newBoolData(capacity int) *boolData {
	if capacity < 0 {
		capacity = 0
	}
	return &boolData{words: make([]uint64, 0, (capacity+63)/64)}
}

func (d *boolData) filled() int { return d.n }

func (d *boolData) get(i int) bool {
	return d.words[i/64]&(1<<(uint(i)%64)) != 0
}

func (d *boolData) put(i int, v bool) {
	mask := uint64(1) << (uint(i) % 64)
	if v {
		d.words[i/64] |= mask
	} else {
		d.words[i/64] &^= mask
	}
}

// resize sets the row count, allocating words as needed and clearing bits
// past the new end.
func (d *boolData) resize(n int) {
	need := (n + 63) / 64
	if need > len(d.words) {
		d.words = growFor(d.words, need-len(d.words))
		d.words = d.words[:need]
	}
	for i := n; i < d.n && i < len(d.words)*64; i++ {
		d.put(i, false)
	}
	if need < len(d.words) {
		for i := need; i < len(d.words); i++ {
			d.words[i] = 0
		}
		d.words = d.words[:need]
	}
	d.n = n
}

func (d *boolData) appendValues(values []bool) error {
	start := d.n
	d.resize(start + len(values))
	for i, v := range values {
		d.put(start+i, v)
	}
	return nil
}

// shiftUp moves bits [index, n) up by count; the caller has resized.
func (d *boolData) shiftUp(index, count, oldN int) {
	for i := oldN - 1; i >= index; i-- {
		d.put(i+count, d.get(i))
	}
}

func (d *boolData) shiftDown(index, count int) {
	for i := index + count; i < d.n; i++ {
		d.put(i-count, d.get(i))
	}
}

func (d *boolData) insertValues(index int, values []bool) (Revert, error) {
	count := len(values)
	oldN := d.n
	d.resize(oldN + count)
	d.shiftUp(index, count, oldN)
	for i, v := range values {
		d.put(index+i, v)
	}
	return func() {
		d.shiftDown(index, count)
		d.resize(d.n - count)
	}, nil
}

func (d *boolData) removeValues(index, count int) (Revert, error) {
	saved := make([]bool, count)
	for i := range saved {
		saved[i] = d.get(index + i)
	}
	d.shiftDown(index, count)
	d.resize(d.n - count)
	return func() {
		oldN := d.n
		d.resize(oldN + count)
		d.shiftUp(index, count, oldN)
		for i, v := range saved {
			d.put(index+i, v)
		}
	}, nil
}

func (d *boolData) value(row int) (bool, error) { return d.get(row), nil }

func (d *boolData) setValue(row int, v bool) error {
	d.put(row, v)
	return nil
}

// BooleanStorage is a bit-packed boolean column.
type BooleanStorage struct {
	*Overlay[bool]
	data *boolData
}

// NewBoolean creates an empty boolean storage.
func NewBoolean(opts Options) *BooleanStorage {
	data := newBoolData(opts.InitialCapacity)
	s := &BooleanStorage{data: data}
	s.Overlay = newOverlay[bool](KindBoolean, data, false, coerceBool, opts)
	s.bind(s)
	return s
}

// CountTrue returns how many valid rows hold true.
func (s *BooleanStorage) CountTrue() int {
	count := 0
	for i := 0; i < s.data.n; i++ {
		if _, bad := s.errs[i]; !bad && s.data.get(i) {
			count++
		}
	}
	return count
}

// ReadBoolean parses cell text. true/false, yes/no and 1/0 are accepted in
// any case.
func ReadBoolean(text string) Item[bool] {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true", "yes", "1":
		return Valid(true)
	case "false", "no", "0":
		return Valid(false)
	}
	return Invalid[bool](stringpool.Sprintf("cannot parse %q as boolean", text))
}

func coerceBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, errors.Newf(errors.ErrorTypeInternal, "expected bool, got %T", v)
	}
	return b, nil
}
