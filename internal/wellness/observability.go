package wellness

import (
	"fmt"
	"io"
	"time"
)

// CallEvent records metadata about a single wellness service call.
type CallEvent struct {
	Date      string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about wellness calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes wellness call events to an io.Writer.
type LogObserver struct {
	w io.Writer
}

func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if !event.Success {
		status = "err:" + event.ErrorCode
	}
	fmt.Fprintf(o.w, "[%s] wellness_call date=%s latency_ms=%d status=%s\n",
		ts, event.Date, event.LatencyMs, status)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
