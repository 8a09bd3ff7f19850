package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Declarations maps clock names to clock indices and integer constants to
// values. Clock indices start at 0 inside a component and are relocated into
// a system-wide range with Relocate before compilation.
//
// In component files declarations are written as source text, for example
// "clock x, y; int limit = 20;".
type Declarations struct {
	Clocks map[string]int
	Ints   map[string]int
}

// NewDeclarations declares the given clocks in order.
func NewDeclarations(clocks ...string) Declarations {
	d := Declarations{Clocks: make(map[string]int), Ints: make(map[string]int)}
	for _, c := range clocks {
		if _, ok := d.Clocks[c]; !ok {
			d.Clocks[c] = len(d.Clocks)
		}
	}
	return d
}

// ParseDeclarations reads declarations such as
//
//	clock x, y;
//	int limit = 20;
//	const int k = 3;
//
// Clocks are numbered from 0 in order of appearance.
func ParseDeclarations(src string) (Declarations, error) {
	decls := NewDeclarations()
	for _, stmt := range strings.Split(stripComments(src), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		stmt = strings.TrimPrefix(stmt, "const ")
		kind, rest, ok := strings.Cut(stmt, " ")
		if !ok {
			return decls, fmt.Errorf("%w: declaration %q", ErrInvalidExpression, stmt)
		}
		for _, item := range strings.Split(rest, ",") {
			item = strings.TrimSpace(item)
			switch kind {
			case "clock":
				if !isIdent(item) {
					return decls, fmt.Errorf("%w: clock name %q", ErrInvalidExpression, item)
				}
				if _, dup := decls.Clocks[item]; dup {
					return decls, fmt.Errorf("%w: clock %s declared twice", ErrInvalidExpression, item)
				}
				decls.Clocks[item] = len(decls.Clocks)
			case "int":
				name, value, _ := strings.Cut(item, "=")
				name = strings.TrimSpace(name)
				if !isIdent(name) {
					return decls, fmt.Errorf("%w: constant name %q", ErrInvalidExpression, name)
				}
				v := 0
				if value = strings.TrimSpace(value); value != "" {
					n, err := strconv.Atoi(value)
					if err != nil {
						return decls, fmt.Errorf("%w: constant %s = %q", ErrInvalidExpression, name, value)
					}
					v = n
				}
				decls.Ints[name] = v
			default:
				return decls, fmt.Errorf("%w: unsupported declaration kind %q", ErrInvalidExpression, kind)
			}
		}
	}
	return decls, nil
}

func stripComments(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if j := strings.Index(line, "//"); j >= 0 {
			lines[i] = line[:j]
		}
	}
	return strings.Join(lines, " ")
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	return true
}

// String renders the declarations back to source text.
func (d Declarations) String() string {
	var parts []string
	if names := d.ClockNames(); len(names) > 0 {
		parts = append(parts, "clock "+strings.Join(names, ", ")+";")
	}
	ints := make([]string, 0, len(d.Ints))
	for n := range d.Ints {
		ints = append(ints, n)
	}
	sort.Strings(ints)
	for _, n := range ints {
		parts = append(parts, fmt.Sprintf("int %s = %d;", n, d.Ints[n]))
	}
	return strings.Join(parts, " ")
}

func (d Declarations) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Declarations) UnmarshalText(text []byte) error {
	parsed, err := ParseDeclarations(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ClockCount returns the number of declared clocks.
func (d Declarations) ClockCount() int { return len(d.Clocks) }

// Clock returns the index of the named clock.
func (d Declarations) Clock(name string) (int, bool) {
	i, ok := d.Clocks[name]
	return i, ok
}

// Int returns the value of the named constant.
func (d Declarations) Int(name string) (int, bool) {
	v, ok := d.Ints[name]
	return v, ok
}

// ClockNames returns clock names ordered by index.
func (d Declarations) ClockNames() []string {
	names := make([]string, 0, len(d.Clocks))
	for n := range d.Clocks {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return d.Clocks[names[i]] < d.Clocks[names[j]] })
	return names
}

// Relocate returns a copy whose clock indices are shifted to start at first.
func (d Declarations) Relocate(first int) Declarations {
	out := Declarations{Clocks: make(map[string]int, len(d.Clocks)), Ints: make(map[string]int, len(d.Ints))}
	base := 0
	if len(d.Clocks) > 0 {
		base = minIndex(d.Clocks)
	}
	for n, i := range d.Clocks {
		out.Clocks[n] = i - base + first
	}
	for n, v := range d.Ints {
		out.Ints[n] = v
	}
	return out
}

func minIndex(m map[string]int) int {
	first := true
	min := 0
	for _, i := range m {
		if first || i < min {
			min, first = i, false
		}
	}
	return min
}
