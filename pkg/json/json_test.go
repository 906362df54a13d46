package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectWriterKeepsOrder(t *testing.T) {
	w := NewObjectWriter(64)
	require.NoError(t, w.WriteField("zeta", 1))
	require.NoError(t, w.WriteField("alpha", "a<b"))
	require.NoError(t, w.WriteRaw(`q"uote`, []byte("null")))
	assert.Equal(t, `{"zeta":1,"alpha":"a<b","q\"uote":null}`, string(w.Bytes()))

	w.Reset()
	assert.Equal(t, `{}`, string(w.Bytes()))

	w.Reset()
	require.NoError(t, w.WriteField("n", Number("12345678901234567890.5")))
	assert.Equal(t, `{"n":12345678901234567890.5}`, string(w.Bytes()))
}

func TestObjectWriterRejectsUnencodable(t *testing.T) {
	var w ObjectWriter
	assert.Error(t, w.WriteField("f", func() {}))
	assert.Equal(t, `{}`, string(w.Bytes()))
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(map[string]any{"tag": "on", "value": true})
	require.NoError(t, err)
	assert.Equal(t, `{"tag":"on","value":true}`, string(data))

	var back map[string]any
	require.NoError(t, Unmarshal(data, &back))
	assert.Equal(t, true, back["value"])
}

func TestBufferPool(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("x")
	PutBuffer(buf)
	assert.Equal(t, 0, GetBuffer().Len())
}

func TestMarshalKeepsHTMLCharacters(t *testing.T) {
	data, err := Marshal("<a href=\"x\">&</a>")
	require.NoError(t, err)
	assert.Equal(t, `"<a href=\"x\">&</a>"`, string(data))

	w := NewObjectWriter(32)
	require.NoError(t, w.WriteField("<k>", []string{"x&y"}))
	assert.Equal(t, `{"<k>":["x&y"]}`, string(w.Bytes()))
}
