package storage

import (
	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/pool"
	stringpool "github.com/ajitpratap0/gridstore/pkg/strings"
)

// TextStorage holds strings, deduplicating repeated values through a bounded
// intern pool.
type TextStorage struct {
	*Overlay[string]
	data *sliceBackend[string]
	pool *pool.InternPool[string]
}

// NewText creates an empty text storage. opts.TextPoolSize bounds the pool.
func NewText(opts Options) *TextStorage {
	p := pool.NewInternPool[string]("text", opts.TextPoolSize, stringpool.Clone)
	p.SetCollector(stats())
	data := newSliceBackend[string](opts.InitialCapacity, p.Intern)
	s := &TextStorage{data: data, pool: p}
	s.Overlay = newOverlay[string](KindText, data, "", coerceText, opts)
	s.bind(s)
	return s
}

// PoolStats reports intern pool effectiveness.
func (s *TextStorage) PoolStats() pool.Stats { return s.pool.Stats() }

func coerceText(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	}
	return "", errors.Newf(errors.ErrorTypeInternal, "expected string, got %T", v)
}
