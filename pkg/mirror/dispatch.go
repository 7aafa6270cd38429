package mirror

import (
	"time"
)

// inlet is the Inlet implementation handed to actions.
type inlet struct {
	// sync is the sync whose delay is being serviced.
	sync *Sync
	// delay is the delay being serviced.
	delay *Delay
}

// Policy implements Inlet.Policy.
func (i *inlet) Policy() *Policy {
	return i.sync.policy
}

// NextEvent implements Inlet.NextEvent.
func (i *inlet) NextEvent() Event {
	event := Event{
		Kind:       i.delay.kind,
		Pathname:   i.delay.pathname,
		SourcePath: i.sync.source + "/" + i.delay.pathname,
		TargetPath: i.sync.target + i.delay.pathname,
	}
	if i.delay.pathname2 != "" {
		event.Pathname2 = i.delay.pathname2
		event.SourcePath2 = i.sync.source + "/" + i.delay.pathname2
		event.TargetPath2 = i.sync.target + i.delay.pathname2
	}
	return event
}

// NextAlarm returns the earliest alarm across all syncs that have pending
// delays and unused child process slots. The boolean return indicates
// whether or not such an alarm exists; when it doesn't, the host may sleep
// until a kernel notification or child exit arrives.
func (e *Engine) NextAlarm() (time.Time, bool) {
	var earliest time.Time
	var have bool
	for _, sync := range e.syncs {
		if alarm, ok := sync.nextAlarm(); ok {
			if !have {
				earliest = alarm
				have = true
			} else {
				earliest = earlierOf(earliest, alarm)
			}
		}
	}
	return earliest, have
}

// Tick makes one dispatch pass over all syncs. For each sync with an expired
// head delay and an unused child process slot, the head is popped and handed
// to the responsible action through an inlet. At most one delay is dispatched
// per sync per call; repeated calls drain further.
func (e *Engine) Tick(now time.Time) {
	for _, sync := range e.syncs {
		// Pop a ready delay, if any.
		delay := sync.popIfReady(now)
		if delay == nil {
			continue
		}

		// Locate the responsible action. The destination half of a split
		// move has none: the move is serviced when its source half
		// dispatches.
		action := sync.policy.actionFor(delay.kind)
		if action == nil {
			sync.logger.Debugf("no handler for %v on %s", delay.kind, delay.pathname)
			continue
		}

		// Invoke the action. A positive return is the PID of the spawned
		// child; anything else means the action declined and the delay is
		// complete.
		pid := action(&inlet{sync: sync, delay: delay})
		if pid > 0 {
			sync.logger.Debugf("dispatched %v on %s to child %d", delay.kind, delay.pathname, pid)
			sync.registerChild(pid, delay)
		} else {
			sync.logger.Tracef("action declined %v on %s", delay.kind, delay.pathname)
		}
	}
}

// Collect routes a child process exit back to the sync that owns it, freeing
// its process slot. Exit codes are observational: they are logged but not
// acted upon. Retry policy, if any, belongs in the action layer.
func (e *Engine) Collect(pid int, exitCode int) {
	for _, sync := range e.syncs {
		if delay, ok := sync.releaseChild(pid); ok {
			sync.logger.Debugf("child %d servicing %v on %s exited with code %d",
				pid, delay.kind, delay.pathname, exitCode)
			return
		}
	}
	e.logger.Warnf("collected unknown child %d (exit code %d)", pid, exitCode)
}
