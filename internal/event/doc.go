// Package event provides the synchronous typed event bus that carries
// view events (cursor movement, focus leave) to their subscribers.
//
// Dispatch is strictly synchronous: Publish invokes every matching
// handler to completion before returning. Handlers must not suspend or
// block; they run on the scheduler goroutine and anything long-running
// belongs in a spawned task instead. Panics in handlers are recovered
// and counted so one misbehaving subscriber cannot take down the loop.
//
// Topics are hierarchical dotted names ("view.cursor.moved"). A
// subscription pattern matches either exactly or by "prefix.*" wildcard.
package event
