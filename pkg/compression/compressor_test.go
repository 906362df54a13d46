package compression

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/gridstore/pkg/errors"
)

func snapshotData() []byte {
	return []byte(strings.Repeat(`{"row":1,"a":"3.14","b":"text text text"}`+"\n", 200))
}

func TestRoundTrip(t *testing.T) {
	original := snapshotData()
	for _, alg := range Algorithms {
		for _, level := range []Level{Fastest, Default, Better, Best} {
			t.Run(string(alg), func(t *testing.T) {
				comp, err := NewCompressor(&Config{Algorithm: alg, Level: level})
				require.NoError(t, err)
				assert.Equal(t, alg, comp.Algorithm())
				assert.Equal(t, level, comp.Level())

				compressed, err := comp.Compress(original)
				require.NoError(t, err)
				decompressed, err := comp.Decompress(compressed)
				require.NoError(t, err)
				assert.Equal(t, original, decompressed)

				var stream bytes.Buffer
				require.NoError(t, comp.CompressStream(&stream, bytes.NewReader(original)))
				if alg != None {
					assert.Less(t, stream.Len(), len(original))
				}
				var out bytes.Buffer
				require.NoError(t, comp.DecompressStream(&out, &stream))
				assert.Equal(t, original, out.Bytes())
			})
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, alg := range Algorithms {
		got, err := ParseAlgorithm(string(alg))
		require.NoError(t, err)
		assert.Equal(t, alg, got)
	}

	got, err := ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, got)

	_, err = ParseAlgorithm("gzip")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestNewCompressorDefaults(t *testing.T) {
	comp, err := NewCompressor(nil)
	require.NoError(t, err)
	assert.Equal(t, Zstd, comp.Algorithm())

	_, err = NewCompressor(&Config{Algorithm: "brotli"})
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".zst", Zstd.Extension())
	assert.Equal(t, ".lz4", LZ4.Extension())
	assert.Equal(t, "", None.Extension())
}
