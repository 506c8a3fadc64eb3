/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package pipeline

/*****************************************************************************************************************/

import "sync"

/*****************************************************************************************************************/

// Queue is the thread-safe FIFO of frames described in §4.3 and §5: one mutex protects the frame
// vector, one sync.Cond signals arrivals so the dispatch goroutine can wake from its suspension
// point instead of polling.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	frames []*Frame
}

/*****************************************************************************************************************/

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)

	return q
}

/*****************************************************************************************************************/

// Push appends a newly arrived frame and wakes any goroutine waiting on the queue.
func (q *Queue) Push(f *Frame) {
	q.mu.Lock()
	q.frames = append(q.frames, f)
	q.mu.Unlock()

	q.cond.Broadcast()
}

/*****************************************************************************************************************/

// Len returns the number of frames currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.frames)
}

/*****************************************************************************************************************/

// oldestInState returns the oldest (lowest-index) frame whose state equals s, or nil, per §4.3:
// "the processor picks the oldest frame in state X and launches the next stage." At most one
// caller may act on a given state at a time; the processor enforces this with its per-frame
// claim map, not the queue itself.
func (q *Queue) oldestInState(s State) *Frame {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, f := range q.frames {
		if f.CurrentState() == s {
			return f
		}
	}

	return nil
}

/*****************************************************************************************************************/

// remove drops f from the queue under the queue mutex, per §4.3's "completed frames are removed
// from the queue." It is a no-op if f is not present.
func (q *Queue) remove(f *Frame) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, candidate := range q.frames {
		if candidate == f {
			q.frames = append(q.frames[:i], q.frames[i+1:]...)
			return
		}
	}
}

/*****************************************************************************************************************/

// Snapshot returns a shallow copy of the current queue contents, for inspection/tests.
func (q *Queue) Snapshot() []*Frame {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*Frame, len(q.frames))
	copy(out, q.frames)

	return out
}

/*****************************************************************************************************************/
