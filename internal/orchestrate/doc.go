// Package orchestrate runs the user-facing compile and format flows as
// cooperative tasks.
//
// Each user action spawns one task that walks a straight-line sequence:
// resolve the applicable catalog entries, suspend at each user prompt,
// suspend once for the remote call, then render the result and wire up
// live highlight correlation. A dismissed prompt terminates the task
// silently with no further mutation; unsupported input and remote
// failures surface as notifications and never clobber the output view.
//
// Overlapping actions are not serialized: a second compile started while
// the first is parked at a prompt runs as an independent task, and the
// last writer wins on the shared output view.
package orchestrate
