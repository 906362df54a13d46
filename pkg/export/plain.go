package export

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajitpratap0/gridstore/pkg/errors"
	"github.com/ajitpratap0/gridstore/pkg/json"
	"github.com/ajitpratap0/gridstore/pkg/storage"
)

// toPlain converts a stored value of type dt into JSON-friendly Go values.
// Numbers keep their exact decimal text.
func toPlain(dt storage.DataType, v any) (any, error) {
	switch dt.Kind {
	case storage.KindNumber:
		d, ok := v.(decimal.Decimal)
		if !ok {
			return nil, mismatch(dt, v)
		}
		return json.Number(d.String()), nil
	case storage.KindText, storage.KindBoolean:
		return v, nil
	case storage.KindDate:
		t, ok := v.(time.Time)
		if !ok {
			return nil, mismatch(dt, v)
		}
		return dt.Precision.Format(t), nil
	case storage.KindArray:
		l, ok := v.(storage.List)
		if !ok {
			return nil, mismatch(dt, v)
		}
		items, err := storage.Collect(l)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, item := range items {
			if out[i], err = plainItem(*dt.Elem, item); err != nil {
				return nil, err
			}
		}
		return out, nil
	case storage.KindRecord:
		rec, ok := v.(storage.Record)
		if !ok {
			return nil, mismatch(dt, v)
		}
		out := make(map[string]any, len(dt.Fields))
		for _, f := range dt.Fields {
			fv, err := toPlain(f.Type, rec[f.Name])
			if err != nil {
				return nil, err
			}
			out[f.Name] = fv
		}
		return out, nil
	case storage.KindTagged:
		tv, ok := v.(storage.TaggedValue)
		if !ok || tv.Tag < 0 || tv.Tag >= len(dt.Cases) {
			return nil, mismatch(dt, v)
		}
		c := dt.Cases[tv.Tag]
		out := map[string]any{"tag": c.Name}
		if c.Inner != nil {
			inner, err := toPlain(*c.Inner, tv.Value)
			if err != nil {
				return nil, err
			}
			out["value"] = inner
		}
		return out, nil
	}
	return nil, mismatch(dt, v)
}

// plainItem renders a nested cell; errors inside arrays become
// {"error": message}.
func plainItem(dt storage.DataType, item storage.Item[any]) (any, error) {
	if msg, isErr := item.Left(); isErr {
		return map[string]any{"error": msg}, nil
	}
	v, _ := item.Right()
	return toPlain(dt, v)
}

func mismatch(dt storage.DataType, v any) error {
	return errors.Internal("cannot export %T as %s", v, dt)
}
