package stats

import (
	"log/slog"
	"time"
)

type Stage string

const (
	StageEML  Stage = "eml"
	StagePDF  Stage = "pdf"
	StageMbox Stage = "mbox"
)

type EventType string

const (
	EventTypeStarted   EventType = "started"
	EventTypeScanned   EventType = "scanned"
	EventTypeSkipped   EventType = "skipped"
	EventTypeMerged    EventType = "merged"
	EventTypeUnmatched EventType = "unmatched"
	EventTypeWritten   EventType = "written"
	EventTypeFiltered  EventType = "filtered"
	EventTypeError     EventType = "error"
)

// Event describes one file (or directory, for EventTypeStarted) handled by a
// stage. Total is set only on EventTypeStarted.
type Event struct {
	Stage  Stage
	Type   EventType
	File   string
	Total  int
	Err    error
	Detail string
}

// Tally counts matched and skipped directory entries for one pass.
type Tally struct {
	Matched int
	Skipped int
}

type Summary struct {
	EMLs      Tally
	PDFs      Tally
	Merged    int
	Unmatched int
	Written   int
	Filtered  int
	Errors    int
	LastError error
}

func (s Summary) LogAttrs() []any {
	attrs := []any{
		"emls", s.EMLs.Matched,
		"emlsSkipped", s.EMLs.Skipped,
		"pdfs", s.PDFs.Matched,
		"pdfsSkipped", s.PDFs.Skipped,
		"merged", s.Merged,
		"unmatched", s.Unmatched,
		"errors", s.Errors,
	}
	if s.Written > 0 || s.Filtered > 0 {
		attrs = append(attrs, "written", s.Written, "filtered", s.Filtered)
	}
	if s.LastError != nil {
		attrs = append(attrs, "lastError", s.LastError.Error())
	}
	return attrs
}

// Collector folds events into a Summary.
type Collector struct {
	summary Summary
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Snapshot() Summary {
	return c.summary
}

func (c *Collector) Apply(evt Event) {
	tally := &c.summary.EMLs
	if evt.Stage == StagePDF {
		tally = &c.summary.PDFs
	}

	switch evt.Type {
	case EventTypeScanned:
		tally.Matched++
	case EventTypeSkipped:
		tally.Skipped++
	case EventTypeMerged:
		c.summary.Merged++
	case EventTypeUnmatched:
		c.summary.Unmatched++
	case EventTypeWritten:
		c.summary.Written++
	case EventTypeFiltered:
		c.summary.Filtered++
	case EventTypeError:
		c.summary.Errors++
		if evt.Err != nil {
			c.summary.LastError = evt.Err
		}
	}
}

// EventStream delivers events to subscribers in emission order.
type EventStream interface {
	Subscribe(fn func(Event))
}

type Reporter struct {
	collector *Collector
	logger    *slog.Logger
	started   time.Time
}

func NewReporter(stream EventStream, logger *slog.Logger) *Reporter {
	reporter := &Reporter{
		collector: NewCollector(),
		logger:    logger,
		started:   time.Now(),
	}
	stream.Subscribe(reporter.collector.Apply)
	return reporter
}

func (r *Reporter) Summary() Summary {
	return r.collector.Snapshot()
}

// Log writes the summary so far at info level.
func (r *Reporter) Log() {
	if r.logger == nil {
		return
	}
	attrs := append(r.Summary().LogAttrs(), "duration", time.Since(r.started))
	r.logger.Info("stats summary", attrs...)
}
