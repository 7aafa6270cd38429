// Package mirror implements the event engine at the heart of Livemirror: the
// recursive watch bindings that map kernel watch descriptors to sync trees,
// the per-sync delay queues that buffer, collapse, cancel, and stack pending
// filesystem events, and the alarm-driven dispatcher that releases ready
// delays into bounded numbers of child processes.
//
// The engine is single-threaded and cooperative. A host runtime drives it in
// a loop of computing the next alarm, blocking on the earliest of alarm
// expiry, kernel notification, and child exit, and delivering the
// corresponding callback. Engine callbacks run to completion without
// yielding, so no locking is performed internally.
package mirror
