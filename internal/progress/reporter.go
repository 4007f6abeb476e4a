// Package progress implements the adaptive reporting cadence used by the
// exporter: a report is made once 150ms have passed since the last one, or
// sooner if 1MB more input has been consumed. Progress observation must
// never affect pipeline output (§5).
package progress

import "time"

const (
	// MinInterval is the minimum time between two reports.
	MinInterval = 150 * time.Millisecond
	// EveryBytes forces a report once this many bytes have been consumed
	// since the last one, even within MinInterval.
	EveryBytes = 1 << 20
)

// Hook receives (bytesConsumed, totalBytes) on each report.
type Hook func(consumed, total int64)

// Reporter throttles calls to a Hook so callers can report progress inside
// a tight loop without flooding stderr or a log sink.
type Reporter struct {
	hook        Hook
	total       int64
	lastReport  time.Time
	lastBytes   int64
	now         func() time.Time
}

// New returns a Reporter that calls hook, if non-nil, subject to the
// standard throttle. total is the expected byte count (0 if unknown).
func New(hook Hook, total int64) *Reporter {
	return &Reporter{hook: hook, total: total, now: time.Now}
}

// Report is called with the current cumulative byte count; it forwards to
// the hook only if enough time or enough bytes have passed since the last
// call, unless force is true.
func (r *Reporter) Report(consumed int64, force bool) {
	if r.hook == nil {
		return
	}
	now := r.now()
	if !force {
		if now.Sub(r.lastReport) < MinInterval && consumed-r.lastBytes < EveryBytes {
			return
		}
	}
	r.lastReport = now
	r.lastBytes = consumed
	r.hook(consumed, r.total)
}

// Done emits a final, unthrottled report.
func (r *Reporter) Done(consumed int64) {
	r.Report(consumed, true)
}
