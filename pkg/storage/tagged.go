package storage

import (
	"github.com/shopspring/decimal"

	"github.com/ajitpratap0/gridstore/pkg/errors"
)

// TaggedValue is one row of a tagged column: the index of the case and, for
// cases carrying data, the payload.
type TaggedValue struct {
	Tag   int
	Value any
}

// taggedData keeps the discriminant in a numeric storage and, per case with a
// payload type, one child storage addressed by the overall row index. Rows of
// other cases hold the child's default.
type taggedData struct {
	cases []TagCase
	disc  *NumericStorage
	subs  []AnyStorage // nil for cases without payload
}

func (d *taggedData) filled() int { return d.disc.Filled() }

func (d *taggedData) appendValues(values []TaggedValue) error {
	_, err := d.insertValues(d.filled(), values)
	return err
}

func (d *taggedData) checkTags(values []TaggedValue) error {
	for i, v := range values {
		if v.Tag < 0 || v.Tag >= len(d.cases) {
			return errors.Internal("tag %d outside [0, %d)", v.Tag, len(d.cases)).
				WithDetail("offset", i)
		}
		if d.subs[v.Tag] == nil && v.Value != nil {
			return errors.Internal("case %q carries no value", d.cases[v.Tag].Name).
				WithDetail("offset", i)
		}
	}
	return nil
}

// split returns the discriminant items and, per payload case, its column.
func (d *taggedData) split(values []TaggedValue) ([]Item[decimal.Decimal], [][]Item[any]) {
	tags := make([]Item[decimal.Decimal], len(values))
	columns := make([][]Item[any], len(d.subs))
	for c, sub := range d.subs {
		if sub == nil {
			continue
		}
		columns[c] = make([]Item[any], len(values))
		for r, v := range values {
			if v.Tag == c && v.Value != nil {
				columns[c][r] = Valid(v.Value)
			} else {
				columns[c][r] = Valid(sub.DefaultAny())
			}
		}
	}
	for r, v := range values {
		tags[r] = Valid(decimal.NewFromInt(int64(v.Tag)))
	}
	return tags, columns
}

func (d *taggedData) insertValues(index int, values []TaggedValue) (Revert, error) {
	if err := d.checkTags(values); err != nil {
		return nil, err
	}
	tags, columns := d.split(values)

	reverts := make([]Revert, 0, len(d.subs)+1)
	done := false
	defer func() {
		if !done {
			Compose(reverts...)()
		}
	}()

	r, err := d.disc.InsertRows(index, tags)
	if err != nil {
		return nil, err
	}
	reverts = append(reverts, r)
	for c, sub := range d.subs {
		if sub == nil {
			continue
		}
		r, err := sub.InsertRowsAny(index, columns[c])
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "tagged fan-out failed").
				WithDetail("case", d.cases[c].Name)
		}
		reverts = append(reverts, r)
	}
	done = true
	return Compose(reverts...), nil
}

func (d *taggedData) removeValues(index, count int) (Revert, error) {
	reverts := make([]Revert, 0, len(d.subs)+1)
	done := false
	defer func() {
		if !done {
			Compose(reverts...)()
		}
	}()

	r, err := d.disc.RemoveRows(index, count)
	if err != nil {
		return nil, err
	}
	reverts = append(reverts, r)
	for c, sub := range d.subs {
		if sub == nil {
			continue
		}
		r, err := sub.RemoveRows(index, count)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "tagged fan-out failed").
				WithDetail("case", d.cases[c].Name)
		}
		reverts = append(reverts, r)
	}
	done = true
	return Compose(reverts...), nil
}

func (d *taggedData) value(row int) (TaggedValue, error) {
	item, err := d.item(row)
	if err != nil {
		return TaggedValue{}, err
	}
	if msg, isErr := item.Left(); isErr {
		return TaggedValue{}, errors.Internal("case holds an error at row %d: %s", row, msg)
	}
	v, _ := item.Right()
	return v, nil
}

// item reads row, surfacing an error held by the payload as the row's error.
func (d *taggedData) item(row int) (Item[TaggedValue], error) {
	tags, err := d.disc.GetAllCollapsed(row, row+1)
	if err != nil {
		return Item[TaggedValue]{}, err
	}
	t, _ := tags[0].Right()
	tag := int(t.IntPart())
	sub := d.subs[tag]
	if sub == nil {
		return Valid(TaggedValue{Tag: tag}), nil
	}
	items, err := sub.GetAllCollapsedAny(row, row+1)
	if err != nil {
		return Item[TaggedValue]{}, err
	}
	if msg, isErr := items[0].Left(); isErr {
		return Invalid[TaggedValue](msg), nil
	}
	v, _ := items[0].Right()
	return Valid(TaggedValue{Tag: tag, Value: v}), nil
}

func (d *taggedData) setValue(row int, v TaggedValue) error {
	if err := d.checkTags([]TaggedValue{v}); err != nil {
		return err
	}
	_, columns := d.split([]TaggedValue{v})
	if err := d.disc.View().Set(row, decimal.NewFromInt(int64(v.Tag))); err != nil {
		return err
	}
	for c, sub := range d.subs {
		if sub == nil {
			continue
		}
		if err := sub.SetAny(row, columns[c][0]); err != nil {
			return err
		}
	}
	return nil
}

// TaggedStorage is a tagged union column. Row errors live in its own overlay.
// A payload may still carry an error of its own (a record field error), which
// reads as the row's error but is not counted by ErrorCount.
type TaggedStorage struct {
	*Overlay[TaggedValue]
	data *taggedData
}

// NewTagged builds a tagged storage. Only cases with an inner type get a
// payload storage. Duplicate case names are an internal error.
func NewTagged(cases []TagCase, opts Options) (*TaggedStorage, error) {
	if len(cases) == 0 {
		return nil, errors.Internal("tagged type needs at least one case")
	}
	child := opts.child()
	child.ImmediateData = false
	data := &taggedData{
		cases: cases,
		disc:  NewNumeric(child),
		subs:  make([]AnyStorage, len(cases)),
	}
	seen := make(map[string]bool, len(cases))
	for i, c := range cases {
		if seen[c.Name] {
			return nil, errors.Internal("duplicate tag case %q", c.Name).
				WithDetail("case", c.Name)
		}
		seen[c.Name] = true
		if c.Inner == nil {
			continue
		}
		sub, err := NewStorage(*c.Inner, child)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "cannot build tag case").
				WithDetail("case", c.Name)
		}
		data.subs[i] = sub
	}
	s := &TaggedStorage{data: data}
	s.Overlay = newOverlay[TaggedValue](KindTagged, data, TaggedValue{}, coerceTagged, opts)
	s.bind(s)
	return s, nil
}

// Cases returns the declared cases in tag order.
func (s *TaggedStorage) Cases() []TagCase { return s.data.cases }

// CaseStorage returns the payload storage of case tag, or nil when the case
// carries no value.
func (s *TaggedStorage) CaseStorage(tag int) AnyStorage {
	if tag < 0 || tag >= len(s.data.subs) {
		return nil
	}
	return s.data.subs[tag]
}

// Discriminant returns the storage of tag indexes.
func (s *TaggedStorage) Discriminant() *NumericStorage { return s.data.disc }

func coerceTagged(v any) (TaggedValue, error) {
	switch t := v.(type) {
	case TaggedValue:
		return t, nil
	case *TaggedValue:
		if t != nil {
			return *t, nil
		}
	}
	return TaggedValue{}, errors.Newf(errors.ErrorTypeInternal, "expected tagged value, got %T", v)
}
