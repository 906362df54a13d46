package either

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEitherSides(t *testing.T) {
	l := Left[string, int]("bad")
	r := Right[string](42)

	assert.True(t, l.IsLeft())
	assert.False(t, l.IsRight())
	assert.True(t, r.IsRight())

	msg, ok := l.Left()
	assert.True(t, ok)
	assert.Equal(t, "bad", msg)

	_, ok = l.Right()
	assert.False(t, ok)

	v, ok := r.Right()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	assert.Equal(t, 7, l.RightOr(7))
	assert.Equal(t, "none", r.LeftOr("none"))
}

func TestEitherZeroValueIsRight(t *testing.T) {
	var e Either[string, int]
	assert.True(t, e.IsRight())
	assert.Equal(t, 0, e.RightOr(5))
}

func TestEitherString(t *testing.T) {
	assert.Equal(t, "Left(bad)", Left[string, int]("bad").String())
	assert.Equal(t, "Right(3)", Right[string](3).String())
}

func TestFoldAndMap(t *testing.T) {
	toLen := func(s string) int { return -len(s) }
	double := func(i int) int { return i * 2 }

	assert.Equal(t, -3, Fold(Left[string, int]("bad"), toLen, double))
	assert.Equal(t, 8, Fold(Right[string](4), toLen, double))

	m := Map(Right[string](4), strconv.Itoa)
	assert.Equal(t, "4", m.RightOr(""))

	ml := Map(Left[string, int]("bad"), strconv.Itoa)
	assert.Equal(t, "bad", ml.LeftOr(""))
}

func TestMapErr(t *testing.T) {
	parse := func(s string) (int, error) { return strconv.Atoi(s) }
	msg := func(err error) string { return "parse failed" }

	ok := MapErr(Right[string]("12"), parse, msg)
	assert.Equal(t, 12, ok.RightOr(0))

	failed := MapErr(Right[string]("x"), parse, msg)
	assert.Equal(t, "parse failed", failed.LeftOr(""))

	passthrough := MapErr(Left[string, string]("orig"), func(string) (int, error) {
		return 0, errors.New("never called")
	}, msg)
	assert.Equal(t, "orig", passthrough.LeftOr(""))
}
