// Package export writes table snapshots to interchange formats. It is a
// one-way path: nothing here reads a snapshot back into storages.
package export

import (
	"bytes"
	"io"

	"go.uber.org/zap"

	"github.com/ajitpratap0/gridstore/pkg/compression"
	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/logger"
)

// Format is an export encoding.
type Format string

const (
	// Arrow writes an Arrow IPC file.
	Arrow Format = "arrow"
	// JSON writes one JSON object per row.
	JSON Format = "json"
)

// ParseFormat maps a configuration name to a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case Arrow, JSON:
		return Format(name), nil
	case "":
		return Arrow, nil
	}
	return "", errors.Newf(errors.ErrorTypeConfig, "unsupported export format: %s", name)
}

// Extension returns the file suffix for f.
func (f Format) Extension() string {
	if f == JSON {
		return ".jsonl"
	}
	return ".arrow"
}

// ErrorSuffix names the companion column holding cell error messages.
const ErrorSuffix = "__error"

// Options control an export.
type Options struct {
	Format      Format
	Compression compression.Algorithm
	Level       compression.Level
	// BatchSize bounds the rows per Arrow record batch.
	BatchSize int
}

// DefaultOptions returns uncompressed Arrow export options.
func DefaultOptions() Options {
	return Options{
		Format:      Arrow,
		Compression: compression.None,
		Level:       compression.Default,
		BatchSize:   64 * 1024,
	}
}

// Write encodes snap to w, compressing the encoded stream when requested.
func Write(w io.Writer, snap *Snapshot, opts Options) error {
	if opts.Compression == "" || opts.Compression == compression.None {
		return encode(w, snap, opts)
	}

	comp, err := compression.NewCompressor(&compression.Config{
		Algorithm: opts.Compression,
		Level:     opts.Level,
	})
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := encode(&buf, snap, opts); err != nil {
		return err
	}
	raw := buf.Len()
	if err := comp.CompressStream(w, &buf); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "compress export")
	}
	logger.Debug("export compressed",
		zap.String("table", snap.Table),
		zap.String("algorithm", string(comp.Algorithm())),
		zap.Int("raw_bytes", raw))
	return nil
}

func encode(w io.Writer, snap *Snapshot, opts Options) error {
	switch opts.Format {
	case JSON:
		return WriteJSON(w, snap)
	case Arrow, "":
		return WriteArrow(w, snap, opts.BatchSize)
	}
	return errors.Newf(errors.ErrorTypeConfig, "unsupported export format: %s", opts.Format)
}
