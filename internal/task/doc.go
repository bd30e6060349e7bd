// Package task provides the cooperative task primitive that lets
// multi-step flows with user-in-the-loop steps be written as
// straight-line code without blocking the rest of the application.
//
// A Scheduler owns a single run loop. Everything that mutates shared
// state — UI callbacks, event handlers, task steps — executes on that
// loop, one item at a time. A Task is a detached sequence of steps
// started with Spawn; it runs uninterrupted between suspension points,
// and suspends only at Await and Yield calls, never implicitly. While a
// task is running the loop is held, so no two steps of two different
// tasks can interleave mid-step; interleaving is only possible across
// suspension points.
//
// Await converts any callback-accepting operation (a prompt the user
// completes, a network call finishing on another goroutine) into a
// single suspension point. The completion callback is single-fire and
// may be invoked from any goroutine; resumption is marshalled back onto
// the scheduler loop. A completion with ok=false models a dismissed
// prompt: by convention the resuming task checks it and terminates its
// remaining steps cleanly, performing no further mutations.
//
// Errors and panics inside a task body never propagate to the spawner.
// Panics are recovered and routed to the scheduler's panic handler;
// errors are surfaced by the task itself, typically as a user-visible
// notification.
package task
