// Package either provides a two-way sum type used to carry a cell value or
// the message explaining why the value is missing.
package either

import "fmt"

// Either holds exactly one of a Left or a Right value.
// The zero value is a Right holding the zero value of R.
type Either[L, R any] struct {
	left   L
	right  R
	isLeft bool
}

// Left creates an Either holding a left value.
func Left[L, R any](l L) Either[L, R] {
	return Either[L, R]{left: l, isLeft: true}
}

// Right creates an Either holding a right value.
func Right[L, R any](r R) Either[L, R] {
	return Either[L, R]{right: r}
}

// IsLeft reports whether the left side is set.
func (e Either[L, R]) IsLeft() bool { return e.isLeft }

// IsRight reports whether the right side is set.
func (e Either[L, R]) IsRight() bool { return !e.isLeft }

// Left returns the left value and whether it is set.
func (e Either[L, R]) Left() (L, bool) { return e.left, e.isLeft }

// Right returns the right value and whether it is set.
func (e Either[L, R]) Right() (R, bool) { return e.right, !e.isLeft }

// LeftOr returns the left value, or def when the Either is a Right.
func (e Either[L, R]) LeftOr(def L) L {
	if e.isLeft {
		return e.left
	}
	return def
}

// RightOr returns the right value, or def when the Either is a Left.
func (e Either[L, R]) RightOr(def R) R {
	if e.isLeft {
		return def
	}
	return e.right
}

// String renders the Either as Left(x) or Right(x).
func (e Either[L, R]) String() string {
	if e.isLeft {
		return fmt.Sprintf("Left(%v)", e.left)
	}
	return fmt.Sprintf("Right(%v)", e.right)
}

// Fold applies onLeft or onRight depending on which side is set.
func Fold[L, R, T any](e Either[L, R], onLeft func(L) T, onRight func(R) T) T {
	if e.isLeft {
		return onLeft(e.left)
	}
	return onRight(e.right)
}

// Map transforms the right value, leaving a left value untouched.
func Map[L, R, S any](e Either[L, R], f func(R) S) Either[L, S] {
	if e.isLeft {
		return Left[L, S](e.left)
	}
	return Right[L](f(e.right))
}

// MapErr transforms the right value with a function that may fail; a failure
// becomes a left value built by onErr.
func MapErr[L, R, S any](e Either[L, R], f func(R) (S, error), onErr func(error) L) Either[L, S] {
	if e.isLeft {
		return Left[L, S](e.left)
	}
	s, err := f(e.right)
	if err != nil {
		return Left[L, S](onErr(err))
	}
	return Right[L](s)
}
