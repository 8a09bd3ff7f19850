package check

import (
	"sync"

	"github.com/aretw0/zonecheck/pkg/system"
)

// workQueue is an unbounded FIFO shared by the determinism workers. pending
// counts queued and in-flight states; the queue closes itself when it drops
// to zero, so workers never wait on each other when the space is exhausted.
type workQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []*system.State
	pending int
	closed  bool
}

func newWorkQueue() *workQueue {
	q := &workQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *workQueue) push(s *system.State) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, s)
	q.pending++
	q.cond.Signal()
}

// pop blocks until a state is available. It reports false once the queue is
// closed; remaining items are dropped.
func (q *workQueue) pop() (*system.State, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return nil, false
	}
	s := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return s, true
}

// done marks one popped state as fully processed.
func (q *workQueue) done() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending--
	if q.pending == 0 {
		q.closed = true
		q.cond.Broadcast()
	}
}

func (q *workQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
