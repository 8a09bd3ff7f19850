package zone

// Bounds holds the maximal constant each clock is compared against.
// Index 0 (the reference clock) is always 0.
type Bounds []int

// NewBounds returns zeroed bounds for dimension dim.
func NewBounds(dim int) Bounds {
	return make(Bounds, dim)
}

// AddUpper raises the bound of clock to c if c is larger.
func (b Bounds) AddUpper(clock, c int) {
	if c < 0 {
		c = -c
	}
	if clock > 0 && c > b[clock] {
		b[clock] = c
	}
}

// Merge returns the pointwise maximum of b and o. The result has the larger
// of the two dimensions.
func (b Bounds) Merge(o Bounds) Bounds {
	n := len(b)
	if len(o) > n {
		n = len(o)
	}
	out := make(Bounds, n)
	copy(out, b)
	for i, c := range o {
		if c > out[i] {
			out[i] = c
		}
	}
	return out
}
