package host

import (
	"bytes"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/livemirror-io/livemirror/pkg/mirror"
	"github.com/livemirror-io/livemirror/pkg/timeutil"
)

// Run drives the engine until shutdown or a fatal condition. It loops over:
// computing the next alarm, blocking on the earliest of alarm expiry, kernel
// notification, child exit, and signal arrival, and delivering exactly one
// engine callback. A nil return indicates orderly shutdown.
func (h *Host) Run(engine *mirror.Engine, statusPath string) error {
	// Set up signal handling: termination requests and status report
	// requests.
	termination := make(chan os.Signal, 1)
	signal.Notify(termination, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(termination)
	statusRequests := make(chan os.Signal, 1)
	notifyStatusRequests(statusRequests)
	defer signal.Stop(statusRequests)

	// Create the alarm timer, initially stopped and drained, and ensure that
	// it's stopped once we return.
	alarmTimer := time.NewTimer(0)
	timeutil.StopAndDrainTimer(alarmTimer)
	defer alarmTimer.Stop()

	// Loop until shutdown.
	for {
		// Arm the alarm timer according to the engine's earliest alarm. If
		// there's none, the timer stays stopped and we block until a kernel
		// notification, child exit, or signal wakes us.
		timeutil.StopAndDrainTimer(alarmTimer)
		if alarm, ok := engine.NextAlarm(); ok {
			wait := alarm.Sub(h.Now())
			if wait < 0 {
				wait = 0
			}
			alarmTimer.Reset(wait)
		}

		// Block on the next wakeup source and deliver its callback.
		select {
		case batch := <-h.watcher.Notifications():
			now := h.Now()
			for _, notification := range batch {
				if notification.Overflow {
					return engine.OnOverflow()
				}
				if notification.Dropped {
					engine.OnWatchDropped(notification.WD)
					continue
				}
				engine.OnKernelEvent(notification.Kind, notification.WD,
					notification.IsDir, now, notification.Name, notification.Name2)
			}
		case err := <-h.watcher.Errors():
			return err
		case exit := <-h.exits:
			engine.Collect(exit.pid, exit.code)
		case <-alarmTimer.C:
			engine.Tick(h.Now())
		case <-statusRequests:
			buffer := &bytes.Buffer{}
			if err := engine.WriteStatus(buffer); err != nil {
				h.logger.Warnf("unable to generate status report: %v", err)
			} else {
				h.writeStatus(buffer.Bytes(), statusPath)
			}
		case sig := <-termination:
			h.logger.Infof("received %v, shutting down", sig)
			return nil
		}
	}
}
