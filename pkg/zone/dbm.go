package zone

// dbm is a canonical difference bound matrix. m[i*dim+j] bounds x_i - x_j.
// A dbm stored in a Federation is never mutated; operations clone first.
type dbm struct {
	dim int
	m   []Bound
}

func newDBM(dim int) *dbm {
	return &dbm{dim: dim, m: make([]Bound, dim*dim)}
}

// universeDBM allows every non-negative valuation.
func universeDBM(dim int) *dbm {
	d := newDBM(dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			switch {
			case i == j, i == 0:
				d.set(i, j, LE(0))
			default:
				d.set(i, j, Infinity)
			}
		}
	}
	return d
}

// zeroDBM holds exactly the valuation where every clock is 0.
func zeroDBM(dim int) *dbm {
	d := newDBM(dim)
	for i := range d.m {
		d.m[i] = LE(0)
	}
	return d
}

func (d *dbm) at(i, j int) Bound { return d.m[i*d.dim+j] }
func (d *dbm) set(i, j int, b Bound) { d.m[i*d.dim+j] = b }

func (d *dbm) clone() *dbm {
	c := &dbm{dim: d.dim, m: make([]Bound, len(d.m))}
	copy(c.m, d.m)
	return c
}

// close runs Floyd-Warshall and reports whether the result is non-empty.
func (d *dbm) close() bool {
	n := d.dim
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			ik := d.at(i, k)
			if ik == Infinity {
				continue
			}
			for j := 0; j < n; j++ {
				if via := addBounds(ik, d.at(k, j)); via < d.at(i, j) {
					d.set(i, j, via)
				}
			}
		}
		for i := 0; i < n; i++ {
			if d.at(i, i) < LE(0) {
				return false
			}
		}
	}
	return true
}

// constrain tightens x_i - x_j to b, keeping d canonical. It reports false
// when the result is empty, in which case d must be discarded.
func (d *dbm) constrain(i, j int, b Bound) bool {
	if b >= d.at(i, j) {
		return true
	}
	if addBounds(b, d.at(j, i)) < LE(0) {
		return false
	}
	d.set(i, j, b)
	n := d.dim
	for k := 0; k < n; k++ {
		ki := d.at(k, i)
		if ki == Infinity {
			continue
		}
		kij := addBounds(ki, b)
		for l := 0; l < n; l++ {
			if via := addBounds(kij, d.at(j, l)); via < d.at(k, l) {
				d.set(k, l, via)
			}
		}
	}
	return true
}

func (d *dbm) up() {
	for i := 1; i < d.dim; i++ {
		d.set(i, 0, Infinity)
	}
}

func (d *dbm) reset(x, v int) {
	for j := 0; j < d.dim; j++ {
		d.set(x, j, addBounds(LE(v), d.at(0, j)))
		d.set(j, x, addBounds(d.at(j, 0), LE(-v)))
	}
	d.set(x, x, LE(0))
}

func (d *dbm) free(x int) {
	for j := 0; j < d.dim; j++ {
		if j == x {
			continue
		}
		d.set(x, j, Infinity)
		d.set(j, x, d.at(j, 0))
	}
}

// extrapolate applies the classic maximal-constant abstraction and
// re-canonicalises.
func (d *dbm) extrapolate(max Bounds) {
	n := d.dim
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			b := d.at(i, j)
			switch {
			case i != 0 && b != Infinity && b > LE(max[i]):
				d.set(i, j, Infinity)
			case j != 0 && b < LT(-max[j]):
				d.set(i, j, LT(-max[j]))
			}
		}
	}
	d.close()
}

func (d *dbm) subsetEq(o *dbm) bool {
	for i, b := range d.m {
		if b > o.m[i] {
			return false
		}
	}
	return true
}

func (d *dbm) equal(o *dbm) bool {
	for i, b := range d.m {
		if b != o.m[i] {
			return false
		}
	}
	return true
}

// intersect returns d ∩ o, or nil when empty.
func (d *dbm) intersect(o *dbm) *dbm {
	c := d.clone()
	changed := false
	for i, b := range o.m {
		if b < c.m[i] {
			c.m[i] = b
			changed = true
		}
	}
	if !changed {
		return c
	}
	if !c.close() {
		return nil
	}
	return c
}

// unbounded reports whether no clock has an upper bound.
func (d *dbm) unbounded() bool {
	for i := 1; i < d.dim; i++ {
		if d.at(i, 0) != Infinity {
			return false
		}
	}
	return true
}

// subtract returns disjoint DBMs whose union is d \ o.
func (d *dbm) subtract(o *dbm) []*dbm {
	if d.intersect(o) == nil {
		return []*dbm{d}
	}
	var out []*dbm
	rem := d.clone()
	n := d.dim
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			b := o.at(i, j)
			if b == Infinity || b >= rem.at(i, j) {
				continue
			}
			piece := rem.clone()
			if piece.constrain(j, i, negate(b)) {
				out = append(out, piece)
			}
			if !rem.constrain(i, j, b) {
				return out
			}
		}
	}
	return out
}

// trivial reports whether (i, j) carries no information beyond the
// non-negativity of clocks.
func (d *dbm) trivial(i, j int) bool {
	b := d.at(i, j)
	return i == j || b == Infinity || (i == 0 && b == LE(0))
}
