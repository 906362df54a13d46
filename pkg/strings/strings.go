// Package strings provides pooled string building and the small text
// normalisation helpers shared by the storage engine.
package strings

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

// Builder provides string building over a reusable byte buffer
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder
func NewBuilder(capacity int) *Builder {
	return &Builder{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends a string to the builder
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteByte appends a single byte
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// Write implements io.Writer interface
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns a copy of the built string
func (b *Builder) String() string {
	return string(b.buf)
}

// Len returns the length of the built string
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset resets the builder for reuse
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// BuilderSize represents different builder sizes
type BuilderSize int

const (
	Small  BuilderSize = iota // < 1KB
	Medium                    // 1KB - 16KB
)

var (
	smallBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(1024)
		},
	}

	mediumBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(16 * 1024)
		},
	}
)

// GetBuilder retrieves a pooled builder of the specified size
func GetBuilder(size BuilderSize) *Builder {
	pool := smallBuilderPool
	if size == Medium {
		pool = mediumBuilderPool
	}
	builder := pool.Get().(*Builder)
	builder.Reset()
	return builder
}

// PutBuilder returns a builder to the appropriate pool
func PutBuilder(builder *Builder, size BuilderSize) {
	if builder == nil {
		return
	}
	pool := smallBuilderPool
	if size == Medium {
		pool = mediumBuilderPool
	}
	builder.Reset()
	pool.Put(builder)
}

// Sprintf provides a pooled alternative to fmt.Sprintf
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}

	size := Small
	if len(format)+len(args)*16 > 1024 {
		size = Medium
	}

	builder := GetBuilder(size)
	defer PutBuilder(builder, size)

	fmt.Fprintf(builder, format, args...)
	return builder.String()
}

// Clone returns a copy of s that does not share memory with its source.
// Interned cell text is cloned so that a pooled value never pins a larger
// buffer it was sliced out of.
func Clone(s string) string {
	return strings.Clone(s)
}

// StripGrouping removes digit grouping separators (commas, underscores and
// spaces, including the no-break variants) from numeric text.
func StripGrouping(s string) string {
	if strings.IndexFunc(s, isGroupingRune) < 0 {
		return s
	}
	builder := GetBuilder(Small)
	defer PutBuilder(builder, Small)
	var tmp [utf8.UTFMax]byte
	for _, r := range s {
		if isGroupingRune(r) {
			continue
		}
		n := utf8.EncodeRune(tmp[:], r)
		_, _ = builder.Write(tmp[:n])
	}
	return builder.String()
}

func isGroupingRune(r rune) bool {
	switch r {
	case ',', '_', ' ', '\u00a0', '\u202f':
		return true
	}
	return false
}
