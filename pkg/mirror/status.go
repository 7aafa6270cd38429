package mirror

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// WriteStatus writes a human-readable status report: a timestamp header, the
// number of watched directories, one line per watch descriptor listing its
// bindings, and per-sync queue and child process counts.
func (e *Engine) WriteStatus(w io.Writer) error {
	// Write the header.
	now := e.host.Now()
	if _, err := fmt.Fprintf(w, "Livemirror status report at %s\n", now.Format(time.RFC1123)); err != nil {
		return err
	}
	if !e.started.IsZero() {
		if _, err := fmt.Fprintf(w, "Running since %s\n", humanize.RelTime(e.started, now, "ago", "from now")); err != nil {
			return err
		}
	}

	// Write the watch table.
	if _, err := fmt.Fprintf(w, "\nWatching %d directories\n", len(e.wdlist)); err != nil {
		return err
	}
	descriptors := make([]int, 0, len(e.wdlist))
	for wd := range e.wdlist {
		descriptors = append(descriptors, wd)
	}
	sort.Ints(descriptors)
	for _, wd := range descriptors {
		if _, err := fmt.Fprintf(w, "  %d: ", wd); err != nil {
			return err
		}
		for _, b := range e.wdlist[wd] {
			if _, err := fmt.Fprintf(w, "(%s/%s)", b.root, b.prefix); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	// Write per-sync statistics.
	for _, sync := range e.syncs {
		if _, err := fmt.Fprintf(w, "\nSync %s: %s -> %s\n  %d pending delays, %d active children\n",
			sync.Identifier(), sync.Source(), sync.Target(),
			sync.PendingDelays(), sync.ActiveChildren()); err != nil {
			return err
		}
	}

	// Success.
	return nil
}
