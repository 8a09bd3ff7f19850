package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundEncoding(t *testing.T) {
	assert.True(t, LE(3) > LT(3))
	assert.True(t, LT(4) > LE(3))
	assert.Equal(t, LT(5), addBounds(LE(2), LT(3)))
	assert.Equal(t, LE(5), addBounds(LE(2), LE(3)))
	assert.Equal(t, Infinity, addBounds(LE(2), Infinity))
	assert.Equal(t, LT(-3), negate(LE(3)))
	assert.Equal(t, LE(-3), negate(LT(3)))
	assert.Equal(t, -3, LE(-3).Constant())
	assert.True(t, LT(-3).Strict())
	assert.False(t, Infinity.Strict())
}

func TestDBMConstrainDetectsEmptiness(t *testing.T) {
	d := universeDBM(2)
	assert.True(t, d.constrain(1, 0, LE(3)))
	assert.False(t, d.clone().constrain(0, 1, LT(-3)))
	assert.True(t, d.constrain(0, 1, LE(-3)))
	assert.Equal(t, LE(3), d.at(1, 0))
	assert.Equal(t, LE(-3), d.at(0, 1))
}

func TestDBMSubtractIsDisjoint(t *testing.T) {
	a := universeDBM(2)
	a.constrain(1, 0, LE(5))
	b := universeDBM(2)
	b.constrain(1, 0, LE(3))

	pieces := a.subtract(b)
	assert.Len(t, pieces, 1)
	assert.Equal(t, LT(-3), pieces[0].at(0, 1))
	assert.Equal(t, LE(5), pieces[0].at(1, 0))
	assert.Nil(t, pieces[0].intersect(b))
}
