package zone

import (
	"fmt"
	"math"
)

// Bound is an encoded upper bound on a clock difference: twice the constant,
// plus one when the bound is non-strict (<=). The encoding makes the natural
// integer order coincide with the tightness order of bounds.
type Bound int64

// Infinity is the absent bound.
const Infinity Bound = math.MaxInt64

// LE returns the non-strict bound "<= c".
func LE(c int) Bound { return Bound(int64(c)<<1 | 1) }

// LT returns the strict bound "< c".
func LT(c int) Bound { return Bound(int64(c) << 1) }

// Constant returns the integer constant of b. It is meaningless for Infinity.
func (b Bound) Constant() int { return int(int64(b) >> 1) }

// Strict reports whether b is a strict (<) bound.
func (b Bound) Strict() bool { return b != Infinity && b&1 == 0 }

func (b Bound) String() string {
	if b == Infinity {
		return "<inf"
	}
	if b.Strict() {
		return fmt.Sprintf("<%d", b.Constant())
	}
	return fmt.Sprintf("<=%d", b.Constant())
}

func addBounds(a, b Bound) Bound {
	if a == Infinity || b == Infinity {
		return Infinity
	}
	return ((a &^ 1) + (b &^ 1)) | (a & b & 1)
}

// negate returns the bound of the complement constraint with swapped operands:
// not(x_i - x_j <= c) is x_j - x_i < -c.
func negate(b Bound) Bound {
	return 1 - b
}
