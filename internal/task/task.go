package task

import "sync"

// Task is one cooperatively scheduled sequence of steps. A Task runs on
// its own goroutine but holds the scheduler loop while executing, so its
// steps never interleave with other scheduled work. Task methods and
// Await must only be called from inside the task's own body.
type Task struct {
	s *Scheduler

	// released carries the control handoff: the task sends when it
	// suspends or finishes, and whichever loop item woke it receives.
	released chan struct{}
}

// Handle identifies a spawned task.
type Handle struct {
	done chan struct{}
}

// Done returns a channel closed when the task body has returned or
// panicked.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Spawn starts body as a new, independently scheduled task. It does not
// block the caller: the task's first step runs when the loop reaches it.
// Errors inside body are not propagated to the spawner; panics are
// recovered and routed to the scheduler's panic handler.
func (s *Scheduler) Spawn(body func(*Task)) *Handle {
	t := &Task{s: s, released: make(chan struct{})}
	h := &Handle{done: make(chan struct{})}
	s.tasksSpawned.Add(1)

	s.Post(func() {
		go func() {
			defer close(h.done)
			defer func() {
				if r := recover(); r != nil {
					s.panics.Add(1)
					if s.onPanic != nil {
						s.onPanic(r)
					}
				}
				// The loop is waiting for this task to park; hand
				// control back whether body returned or panicked.
				t.release()
			}()
			body(t)
		}()
		t.waitParked()
	})
	return h
}

// release hands control back to the loop item waiting on this task.
// After the scheduler stops there is no waiter; the handoff is skipped
// so an unwinding task never blocks on it.
func (t *Task) release() {
	select {
	case t.released <- struct{}{}:
	case <-t.s.stopped:
	}
}

// waitParked blocks the loop until the task suspends or finishes.
func (t *Task) waitParked() {
	select {
	case <-t.released:
	case <-t.s.stopped:
	}
}

// Yield voluntarily hands control back to the scheduler and resumes on
// the next scheduling opportunity. Work posted to the loop before the
// Yield — a UI refresh, an event dispatch — runs before the task
// continues.
func (t *Task) Yield() {
	Await(t, func(resolve func(struct{}, bool)) {
		resolve(struct{}{}, true)
	})
}

// Await suspends the task at a callback-completed operation. start is
// invoked immediately, still inside the task's step, and receives a
// single-fire resolve callback; the task then suspends until resolve is
// called. resolve may be invoked from any goroutine — resumption is
// marshalled back onto the scheduler loop. Calls to resolve after the
// first are ignored.
//
// ok=false models an absent completion (the user dismissed a prompt);
// the resuming code is expected to terminate its remaining steps cleanly
// when it sees it. A task has at most one outstanding suspension: Await
// blocks the task goroutine until resolution. If the scheduler stops
// while the task is suspended, Await resumes with ok=false so the task
// can unwind instead of leaking its goroutine.
func Await[T any](t *Task, start func(resolve func(value T, ok bool))) (T, bool) {
	type outcome struct {
		value T
		ok    bool
	}
	ch := make(chan outcome, 1)

	var once sync.Once
	resolve := func(value T, ok bool) {
		once.Do(func() {
			t.s.Post(func() {
				ch <- outcome{value: value, ok: ok}
				t.waitParked()
			})
		})
	}

	start(resolve)
	t.release()
	select {
	case out := <-ch:
		return out.value, out.ok
	case <-t.s.stopped:
		var zero T
		return zero, false
	}
}
