package zone

import (
	"fmt"
	"sort"
	"strings"
)

// Federation is an immutable union of DBMs of one dimension.
type Federation struct {
	dim  int
	dbms []*dbm
}

// Universe returns the federation of all non-negative clock valuations.
func Universe(dim int) Federation {
	return Federation{dim: dim, dbms: []*dbm{universeDBM(dim)}}
}

// Empty returns the empty federation.
func Empty(dim int) Federation {
	return Federation{dim: dim}
}

// Init returns the federation holding only the all-zero valuation.
func Init(dim int) Federation {
	return Federation{dim: dim, dbms: []*dbm{zeroDBM(dim)}}
}

// Dim returns the number of clocks including the reference clock.
func (f Federation) Dim() int { return f.dim }

// Size returns the number of DBMs in the union.
func (f Federation) Size() int { return len(f.dbms) }

// IsEmpty reports whether f contains no valuation.
func (f Federation) IsEmpty() bool { return len(f.dbms) == 0 }

// IsUniverse reports whether f contains every valuation.
func (f Federation) IsUniverse() bool {
	return Universe(f.dim).SubsetEq(f)
}

func (f Federation) check(o Federation) {
	if f.dim != o.dim {
		panic(fmt.Sprintf("zone: dimension mismatch %d != %d", f.dim, o.dim))
	}
}

func (f Federation) checkClock(clock int) {
	if clock <= 0 || clock >= f.dim {
		panic(fmt.Sprintf("zone: clock %d out of range for dimension %d", clock, f.dim))
	}
}

// Constrain intersects f with x_i - x_j ≺ b.
func (f Federation) Constrain(i, j int, b Bound) Federation {
	out := Federation{dim: f.dim}
	for _, d := range f.dbms {
		c := d.clone()
		if c.constrain(i, j, b) {
			out.dbms = append(out.dbms, c)
		}
	}
	return out.reduce()
}

// Intersection returns f ∩ o.
func (f Federation) Intersection(o Federation) Federation {
	f.check(o)
	out := Federation{dim: f.dim}
	for _, a := range f.dbms {
		for _, b := range o.dbms {
			if c := a.intersect(b); c != nil {
				out.dbms = append(out.dbms, c)
			}
		}
	}
	return out.reduce()
}

// Union returns f ∪ o.
func (f Federation) Union(o Federation) Federation {
	f.check(o)
	out := Federation{dim: f.dim, dbms: make([]*dbm, 0, len(f.dbms)+len(o.dbms))}
	out.dbms = append(out.dbms, f.dbms...)
	out.dbms = append(out.dbms, o.dbms...)
	return out.reduce()
}

// Subtraction returns f \ o.
func (f Federation) Subtraction(o Federation) Federation {
	f.check(o)
	rest := f.dbms
	for _, b := range o.dbms {
		var next []*dbm
		for _, a := range rest {
			next = append(next, a.subtract(b)...)
		}
		rest = next
		if len(rest) == 0 {
			break
		}
	}
	return Federation{dim: f.dim, dbms: rest}.reduce()
}

// Inverse returns the complement of f within the universe.
func (f Federation) Inverse() Federation {
	return Universe(f.dim).Subtraction(f)
}

// Up removes the upper bounds of all clocks (delay closure).
func (f Federation) Up() Federation {
	return f.each(func(d *dbm) { d.up() })
}

// Reset assigns value to clock.
func (f Federation) Reset(clock, value int) Federation {
	f.checkClock(clock)
	return f.each(func(d *dbm) { d.reset(clock, value) })
}

// Free removes every constraint on clock.
func (f Federation) Free(clock int) Federation {
	f.checkClock(clock)
	return f.each(func(d *dbm) { d.free(clock) })
}

// Extrapolate applies maximal-constant extrapolation with the given bounds.
func (f Federation) Extrapolate(max Bounds) Federation {
	if len(max) < f.dim {
		panic(fmt.Sprintf("zone: bounds of length %d for dimension %d", len(max), f.dim))
	}
	return f.each(func(d *dbm) { d.extrapolate(max) })
}

func (f Federation) each(fn func(*dbm)) Federation {
	out := Federation{dim: f.dim, dbms: make([]*dbm, 0, len(f.dbms))}
	for _, d := range f.dbms {
		c := d.clone()
		fn(c)
		out.dbms = append(out.dbms, c)
	}
	return out.reduce()
}

// SubsetEq reports whether f ⊆ o.
func (f Federation) SubsetEq(o Federation) bool {
	f.check(o)
	covered := true
	for _, a := range f.dbms {
		found := false
		for _, b := range o.dbms {
			if a.subsetEq(b) {
				found = true
				break
			}
		}
		if !found {
			covered = false
			break
		}
	}
	if covered {
		return true
	}
	return f.Subtraction(o).IsEmpty()
}

// Equal reports whether f and o hold the same valuations.
func (f Federation) Equal(o Federation) bool {
	return f.SubsetEq(o) && o.SubsetEq(f)
}

// HasIntersection reports whether f ∩ o is non-empty.
func (f Federation) HasIntersection(o Federation) bool {
	f.check(o)
	for _, a := range f.dbms {
		for _, b := range o.dbms {
			if a.intersect(b) != nil {
				return true
			}
		}
	}
	return false
}

// CanDelayIndefinitely reports whether some DBM of f has no upper bound on
// any clock.
func (f Federation) CanDelayIndefinitely() bool {
	for _, d := range f.dbms {
		if d.unbounded() {
			return true
		}
	}
	return false
}

// reduce drops DBMs included in another DBM of the union.
func (f Federation) reduce() Federation {
	if len(f.dbms) < 2 {
		return f
	}
	keep := make([]*dbm, 0, len(f.dbms))
	for i, a := range f.dbms {
		redundant := false
		for j, b := range f.dbms {
			if i == j {
				continue
			}
			if a.subsetEq(b) && (!b.subsetEq(a) || j < i) {
				redundant = true
				break
			}
		}
		if !redundant {
			keep = append(keep, a)
		}
	}
	return Federation{dim: f.dim, dbms: keep}
}

// Constraint is a single clock difference constraint x_I - x_J ≺ Bound.
type Constraint struct {
	I, J  int
	Bound Bound
}

// MinimalConstraints returns f in disjunctive normal form, each conjunction
// reduced to a minimal set of constraints. An empty conjunction is true; an
// empty disjunction is false.
func (f Federation) MinimalConstraints() [][]Constraint {
	out := make([][]Constraint, 0, len(f.dbms))
	for _, d := range f.dbms {
		out = append(out, minimal(d))
	}
	return out
}

func minimal(d *dbm) []Constraint {
	var kept []Constraint
	for i := 0; i < d.dim; i++ {
		for j := 0; j < d.dim; j++ {
			if !d.trivial(i, j) {
				kept = append(kept, Constraint{I: i, J: j, Bound: d.at(i, j)})
			}
		}
	}
	for idx := 0; idx < len(kept); {
		candidate := append(append([]Constraint{}, kept[:idx]...), kept[idx+1:]...)
		if rebuild(d.dim, candidate).equal(d) {
			kept = candidate
			continue
		}
		idx++
	}
	return kept
}

func rebuild(dim int, cs []Constraint) *dbm {
	d := universeDBM(dim)
	for _, c := range cs {
		if b := c.Bound; b < d.at(c.I, c.J) {
			d.set(c.I, c.J, b)
		}
	}
	d.close()
	return d
}

// Format renders f using name to label clocks.
func (f Federation) Format(name func(int) string) string {
	if f.IsEmpty() {
		return "false"
	}
	var parts []string
	for _, conj := range f.MinimalConstraints() {
		if len(conj) == 0 {
			return "true"
		}
		terms := make([]string, 0, len(conj))
		for _, c := range conj {
			terms = append(terms, formatConstraint(c, name))
		}
		sort.Strings(terms)
		parts = append(parts, strings.Join(terms, " && "))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	for i, p := range parts {
		parts[i] = "(" + p + ")"
	}
	return strings.Join(parts, " || ")
}

func formatConstraint(c Constraint, name func(int) string) string {
	op := "<="
	if c.Bound.Strict() {
		op = "<"
	}
	k := c.Bound.Constant()
	switch {
	case c.J == 0:
		return fmt.Sprintf("%s%s%d", name(c.I), op, k)
	case c.I == 0:
		flipped := ">="
		if c.Bound.Strict() {
			flipped = ">"
		}
		return fmt.Sprintf("%s%s%d", name(c.J), flipped, -k)
	default:
		return fmt.Sprintf("%s-%s%s%d", name(c.I), name(c.J), op, k)
	}
}

func (f Federation) String() string {
	return f.Format(func(i int) string { return fmt.Sprintf("x%d", i) })
}
