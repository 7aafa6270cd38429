package mirror

import (
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/livemirror-io/livemirror/pkg/logging"
)

// Sync is one configured (source tree, target identifier, policy) replication
// unit. It owns a FIFO of pending delays, a pathname index over them, and a
// table of live child processes. All methods must be invoked from the single
// engine thread.
type Sync struct {
	// identifier is the sync's unique identifier.
	identifier string
	// source is the canonical absolute path of the source tree, without a
	// trailing slash.
	source string
	// target is the opaque target identifier handed to actions.
	target string
	// policy is the sync's replication policy.
	policy *Policy
	// clock is the engine's monotonic time source.
	clock Clock
	// logger is the sync's logger.
	logger *logging.Logger
	// delays is the pending delay queue, ordered oldest first. Offers are
	// appended, so the queue is ordered by alarm (ties by insertion order)
	// as long as offers arrive with non-decreasing timestamps. An
	// untimestamped offer made while a delay is configured receives an
	// earlier alarm than the entries ahead of it and still waits behind them.
	delays []*Delay
	// delayname indexes the oldest pending delay for each pathname. Delays
	// rewritten to EventNone are never indexed.
	delayname map[string]*Delay
	// processes maps live child process PIDs to the delays they service.
	processes map[int]*Delay
}

// NewSync creates a new sync with the specified identity and policy. The
// source must be a canonical absolute path without a trailing slash.
func NewSync(identifier, source, target string, policy *Policy, clock Clock, logger *logging.Logger) *Sync {
	return &Sync{
		identifier: identifier,
		source:     source,
		target:     target,
		policy:     policy,
		clock:      clock,
		logger:     logger,
		delayname:  make(map[string]*Delay),
		processes:  make(map[int]*Delay),
	}
}

// Identifier returns the sync's identifier.
func (s *Sync) Identifier() string {
	return s.identifier
}

// Source returns the canonical absolute path of the sync's source tree.
func (s *Sync) Source() string {
	return s.source
}

// Target returns the sync's opaque target identifier.
func (s *Sync) Target() string {
	return s.target
}

// Policy returns the sync's policy.
func (s *Sync) Policy() *Policy {
	return s.policy
}

// PendingDelays returns the number of queued delays, including nullified
// delays that haven't been popped yet.
func (s *Sync) PendingDelays() int {
	return len(s.delays)
}

// ActiveChildren returns the number of live child processes.
func (s *Sync) ActiveChildren() int {
	return len(s.processes)
}

// excluded returns whether or not the specified pathname matches one of the
// sync's exclusion patterns.
func (s *Sync) excluded(pathname string) bool {
	for _, pattern := range s.policy.Exclude {
		if matched, err := doublestar.Match(pattern, pathname); err != nil {
			s.logger.Warnf("invalid exclusion pattern %q: %v", pattern, err)
		} else if matched {
			return true
		}
	}
	return false
}

// Offer presents a filesystem event to the sync's delay queue. The at
// timestamp is the event's arrival time; a zero value indicates that the
// event carries no timestamp, in which case the delay's alarm is the current
// time (it is still dispatched in queue order). The pathname2 argument is only meaningful for move
// events, where it names the destination.
//
// Moves are split before queueing: into a source/destination half pair when
// the policy has a move handler, and into a delete/create pair otherwise. If
// a pending delay already exists for the pathname, the policy's collapse
// table decides whether the new event cancels the pending delay, stacks
// behind it, or collapses into it. Pending move halves are exempt: events
// colliding with them are logged and dropped.
func (s *Sync) Offer(kind EventKind, at time.Time, pathname, pathname2 string) {
	// Split moves before queueing.
	if kind == EventMove {
		if s.policy.OnMove == nil {
			s.Offer(EventDelete, at, pathname, "")
			s.Offer(EventCreate, at, pathname2, "")
		} else {
			s.Offer(EventMoveFrom, at, pathname, pathname2)
			s.Offer(EventMoveTo, at, pathname2, "")
		}
		return
	}

	// Drop excluded paths.
	if s.excluded(pathname) {
		s.logger.Tracef("excluding %v on %s", kind, pathname)
		return
	}

	// Select the alarm. Timestamped events are deferred by the configured
	// delay; events without a timestamp fire immediately.
	var alarm time.Time
	if !at.IsZero() && s.policy.Delay > 0 {
		alarm = at.Add(s.policy.Delay)
	} else {
		alarm = s.clock.Now()
	}

	// Create the new delay.
	delay := &Delay{
		kind:      kind,
		pathname:  pathname,
		pathname2: pathname2,
		alarm:     alarm,
	}

	// If there's no pending delay for the pathname, queue and index the new
	// delay.
	oldest := s.delayname[pathname]
	if oldest == nil {
		s.delays = append(s.delays, delay)
		s.delayname[pathname] = delay
		s.logger.Tracef("queued %v on %s", kind, pathname)
		return
	}

	// Locate the youngest delay stacked on the pathname, tracking its
	// predecessor for unlinking.
	var predecessor *Delay
	tail := oldest
	for tail.next != nil {
		predecessor = tail
		tail = tail.next
	}

	// Move halves are never coalesced with other events on the same path.
	if tail.kind.isMoveHalf() || kind.isMoveHalf() {
		s.logger.Debugf("not coalescing %v with pending %v on %s", kind, tail.kind, pathname)
		return
	}

	// Resolve the collision against the collapse table.
	switch outcome := s.policy.collapseTable().resolve(tail.kind, kind); outcome {
	case CollapseCancel:
		// The events annihilate: nullify the pending delay and drop the new
		// event. The nullified delay remains queued until popped, but is
		// unlinked from the pathname index.
		s.logger.Debugf("cancelling pending %v with %v on %s", tail.kind, kind, pathname)
		tail.kind = EventNone
		tail.pathname2 = ""
		if predecessor != nil {
			predecessor.next = nil
		} else {
			delete(s.delayname, pathname)
		}
	case CollapseStack:
		// Queue the new delay behind the pending one. The index continues to
		// reference the oldest delay; the stacked delay only becomes
		// reachable once its predecessors have been dispatched or cancelled.
		s.logger.Debugf("stacking %v behind pending %v on %s", kind, tail.kind, pathname)
		s.delays = append(s.delays, delay)
		tail.next = delay
	default:
		// Collapse: rewrite the pending delay's kind and drop the new event.
		s.logger.Tracef("collapsing %v into pending %v on %s", kind, tail.kind, pathname)
		tail.kind = EventKind(outcome)
	}
}

// popIfReady removes and returns the head delay if its alarm has expired and
// a child process slot is available. Nullified delays at the head of the
// queue are discarded silently as their alarms expire. A nil return indicates
// that nothing is ready.
func (s *Sync) popIfReady(now time.Time) *Delay {
	for len(s.delays) > 0 {
		head := s.delays[0]

		// Wait for the head's alarm.
		if !beforeOrEqual(head.alarm, now) {
			return nil
		}

		// Discard nullified delays without dispatch. They were already
		// unlinked from the pathname index when cancelled.
		if head.kind == EventNone {
			s.delays = s.delays[1:]
			continue
		}

		// Honor the child process cap.
		if len(s.processes) >= s.policy.MaxProcesses {
			return nil
		}

		// Pop the head and update the pathname index: if further delays are
		// stacked on the path, the index advances to the next-oldest one.
		s.delays = s.delays[1:]
		if s.delayname[head.pathname] == head {
			if head.next != nil {
				s.delayname[head.pathname] = head.next
			} else {
				delete(s.delayname, head.pathname)
			}
		}
		head.next = nil
		return head
	}
	return nil
}

// nextAlarm returns the alarm of the head delay, if the sync has pending
// delays and an unused child process slot.
func (s *Sync) nextAlarm() (time.Time, bool) {
	if len(s.delays) == 0 || len(s.processes) >= s.policy.MaxProcesses {
		return time.Time{}, false
	}
	return s.delays[0].alarm, true
}

// registerChild records a live child process servicing the specified delay.
// Non-positive PIDs indicate that the action declined to spawn; no entry is
// recorded and the delay is considered complete.
func (s *Sync) registerChild(pid int, delay *Delay) {
	if pid <= 0 {
		return
	}
	s.processes[pid] = delay
}

// releaseChild removes the entry for the specified child process, returning
// the delay it was servicing and whether or not the PID was known.
func (s *Sync) releaseChild(pid int) (*Delay, bool) {
	delay, ok := s.processes[pid]
	if ok {
		delete(s.processes, pid)
	}
	return delay, ok
}
