package task

import (
	"context"
	"sync"
	"sync/atomic"
)

// PanicHandler is invoked when a task body or posted callback panics.
// The loop is held while the handler runs, so it executes exclusively
// with respect to all other scheduled work.
type PanicHandler func(recovered any)

// Stats reports scheduler activity counters.
type Stats struct {
	TasksSpawned uint64
	ItemsRun     uint64
	Panics       uint64
}

// Scheduler is a single-threaded cooperative run loop. Exactly one work
// item — a posted callback or a slice of a task between suspension
// points — executes at a time.
type Scheduler struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}

	// stopped is closed when Run returns; suspended tasks use it to
	// unwind instead of waiting for a resumption that will never run.
	stopped  chan struct{}
	stopOnce sync.Once

	onPanic PanicHandler

	tasksSpawned atomic.Uint64
	itemsRun     atomic.Uint64
	panics       atomic.Uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithPanicHandler sets the handler invoked when a task or callback
// panics. Without one, panics are swallowed after being counted.
func WithPanicHandler(h PanicHandler) Option {
	return func(s *Scheduler) { s.onPanic = h }
}

// NewScheduler creates a scheduler. Run must be called for posted work
// to execute.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Post enqueues a callback onto the run loop. It is safe to call from
// any goroutine and never blocks; the queue is unbounded. Callbacks run
// in the order their triggering calls occur.
func (s *Scheduler) Post(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run executes the loop until the context is cancelled. It returns the
// context's error. Run must be called from exactly one goroutine. Once
// Run returns, tasks still suspended in Await resume with ok=false so
// their goroutines can unwind.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.stopOnce.Do(func() { close(s.stopped) })
	for {
		fn, ok := s.next()
		if ok {
			s.exec(fn)
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
	}
}

// next pops the head of the queue.
func (s *Scheduler) next() (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil, false
	}
	fn := s.queue[0]
	s.queue = s.queue[1:]
	return fn, true
}

// exec runs one work item with panic recovery.
func (s *Scheduler) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.panics.Add(1)
			if s.onPanic != nil {
				s.onPanic(r)
			}
		}
	}()
	s.itemsRun.Add(1)
	fn()
}

// Stats returns current scheduler counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		TasksSpawned: s.tasksSpawned.Load(),
		ItemsRun:     s.itemsRun.Load(),
		Panics:       s.panics.Load(),
	}
}
