// Package json provides goccy/go-json backed encoding for exported rows,
// including an ordered object writer so that row keys keep column order.
package json

import (
	"bytes"
	"sync"

	gojson "github.com/goccy/go-json"
)

// Number is a literal JSON number kept as text.
type Number = gojson.Number

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// GetBuffer gets a pooled bytes.Buffer
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 1024*1024 { // Don't pool very large buffers
		return
	}
	bufferPool.Put(buf)
}

// Marshal encodes v without HTML escaping.
func Marshal(v interface{}) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encode terminates every value with a newline
	data := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	return append([]byte(nil), data...), nil
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// ObjectWriter builds one JSON object field by field, keeping insertion
// order. The zero value is ready to use.
type ObjectWriter struct {
	buffer []byte
	fields int
}

// NewObjectWriter creates a writer with room for initialSize bytes.
func NewObjectWriter(initialSize int) *ObjectWriter {
	return &ObjectWriter{buffer: make([]byte, 0, initialSize)}
}

// WriteField appends key and the encoding of value.
func (w *ObjectWriter) WriteField(key string, value interface{}) error {
	data, err := Marshal(value)
	if err != nil {
		return err
	}
	return w.WriteRaw(key, data)
}

// WriteRaw appends key with an already encoded value.
func (w *ObjectWriter) WriteRaw(key string, raw []byte) error {
	k, err := Marshal(key)
	if err != nil {
		return err
	}
	if w.fields == 0 {
		w.buffer = append(w.buffer, '{')
	} else {
		w.buffer = append(w.buffer, ',')
	}
	w.buffer = append(w.buffer, k...)
	w.buffer = append(w.buffer, ':')
	w.buffer = append(w.buffer, raw...)
	w.fields++
	return nil
}

// Bytes closes the object and returns it. The slice is reused after Reset.
func (w *ObjectWriter) Bytes() []byte {
	if w.fields == 0 {
		return append(w.buffer[:0], '{', '}')
	}
	return append(w.buffer, '}')
}

// Reset resets the writer for reuse
func (w *ObjectWriter) Reset() {
	w.buffer = w.buffer[:0]
	w.fields = 0
}
