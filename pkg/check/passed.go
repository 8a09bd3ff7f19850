package check

import (
	"sync"

	"github.com/aretw0/zonecheck/pkg/system"
	"github.com/aretw0/zonecheck/pkg/zone"
)

// passedList stores explored zones per location key.
type passedList struct {
	zones map[string][]zone.Federation
	order []string
	size  int
}

func newPassedList() *passedList {
	return &passedList{zones: make(map[string][]zone.Federation)}
}

// coversZone reports whether z is included in a zone stored under key.
func (p *passedList) coversZone(key string, z zone.Federation) bool {
	for _, stored := range p.zones[key] {
		if z.SubsetEq(stored) {
			return true
		}
	}
	return false
}

func (p *passedList) addZone(key string, z zone.Federation) {
	p.zones[key] = append(p.zones[key], z)
	p.order = append(p.order, key)
	p.size++
}

// mark returns the number of stored zones, to be handed to rollback.
func (p *passedList) mark() int { return len(p.order) }

// rollback drops every zone stored after mark was taken.
func (p *passedList) rollback(mark int) {
	for len(p.order) > mark {
		key := p.order[len(p.order)-1]
		p.order = p.order[:len(p.order)-1]
		p.zones[key] = p.zones[key][:len(p.zones[key])-1]
		p.size--
	}
}

func (p *passedList) covers(s *system.State) bool {
	return p.coversZone(s.Location().Key(), s.Zone())
}

func (p *passedList) add(s *system.State) {
	p.addZone(s.Location().Key(), s.Zone())
}

// addIfNew stores s unless it is already covered.
func (p *passedList) addIfNew(s *system.State) bool {
	if p.covers(s) {
		return false
	}
	p.add(s)
	return true
}

// syncPassedList is a passedList shared by the determinism workers.
type syncPassedList struct {
	mu   sync.Mutex
	list *passedList
}

func (p *syncPassedList) addIfNew(s *system.State) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list.addIfNew(s)
}

func (p *syncPassedList) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list.size
}

// successor takes t from s and extrapolates the result with the bounds of
// the target location.
func successor(sys system.TransitionSystem, s *system.State, t *system.Transition) (*system.State, bool) {
	next, ok := t.Use(s)
	if !ok {
		return nil, false
	}
	return next.Extrapolate(sys.LocalMaxBounds(next.Location())), true
}
