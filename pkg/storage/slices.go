package storage

// growFor makes room for extra more elements, doubling capacity on overflow.
// The returned slice has the same length as s.
func growFor[E any](s []E, extra int) []E {
	need := len(s) + extra
	if need <= cap(s) {
		return s
	}
	newCap := cap(s) * 2
	if newCap < need {
		newCap = need
	}
	grown := make([]E, len(s), newCap)
	copy(grown, s)
	return grown
}

// openGap inserts count zero elements at index, shifting the tail up.
func openGap[E any](s []E, index, count int) []E {
	if count == 0 {
		return s
	}
	s = growFor(s, count)
	n := len(s)
	s = s[:n+count]
	copy(s[index+count:], s[index:n])
	var zero E
	for i := index; i < index+count; i++ {
		s[i] = zero
	}
	return s
}

// closeGap removes count elements at index, shifting the tail down. Capacity
// is kept.
func closeGap[E any](s []E, index, count int) []E {
	if count == 0 {
		return s
	}
	n := len(s)
	copy(s[index:], s[index+count:])
	var zero E
	for i := n - count; i < n; i++ {
		s[i] = zero
	}
	return s[:n-count]
}

// sliceBackend is the backend shared by storages whose values live in one
// plain slice.
type sliceBackend[T any] struct {
	values []T
	intern func(T) T
}

func newSliceBackend[T any](capacity int, intern func(T) T) *sliceBackend[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &sliceBackend[T]{values: make([]T, 0, capacity), intern: intern}
}

func (b *sliceBackend[T]) filled() int { return len(b.values) }

func (b *sliceBackend[T]) prepare(v T) T {
	if b.intern != nil {
		return b.intern(v)
	}
	return v
}

func (b *sliceBackend[T]) appendValues(values []T) error {
	b.values = growFor(b.values, len(values))
	for _, v := range values {
		b.values = append(b.values, b.prepare(v))
	}
	return nil
}

func (b *sliceBackend[T]) insertValues(index int, values []T) (Revert, error) {
	count := len(values)
	b.values = openGap(b.values, index, count)
	for i, v := range values {
		b.values[index+i] = b.prepare(v)
	}
	return func() {
		b.values = closeGap(b.values, index, count)
	}, nil
}

func (b *sliceBackend[T]) removeValues(index, count int) (Revert, error) {
	saved := make([]T, count)
	copy(saved, b.values[index:index+count])
	b.values = closeGap(b.values, index, count)
	return func() {
		b.values = openGap(b.values, index, count)
		copy(b.values[index:], saved)
	}, nil
}

func (b *sliceBackend[T]) value(row int) (T, error) {
	return b.values[row], nil
}

func (b *sliceBackend[T]) setValue(row int, v T) error {
	b.values[row] = b.prepare(v)
	return nil
}
