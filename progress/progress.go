package progress

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/dhcgn/exemption-log/stats"
)

// Bar shows one progress bar per directory pass. It is only active at log
// level info; at other levels the slog output stands in for it.
type Bar struct {
	pb      *pterm.ProgressbarPrinter
	stage   stats.Stage
	enabled bool
}

// New creates a progress bar if logLevel is "info".
func New(logLevel string) *Bar {
	return &Bar{enabled: logLevel == "info"}
}

func (b *Bar) Enabled() bool {
	return b.enabled
}

// Update advances the bar for the given event.
func (b *Bar) Update(evt stats.Event) {
	if !b.enabled {
		return
	}

	switch evt.Type {
	case stats.EventTypeStarted:
		b.stopBar()
		pb, err := pterm.DefaultProgressbar.
			WithTotal(evt.Total).
			WithTitle(title(evt.Stage)).
			Start()
		if err != nil {
			return
		}
		b.pb = pb
		b.stage = evt.Stage
	case stats.EventTypeScanned, stats.EventTypeSkipped:
		if b.pb != nil && evt.Stage == b.stage {
			b.pb.Increment()
		}
	case stats.EventTypeError:
		b.stopBar()
		if evt.Err != nil {
			pterm.Error.Printf("Error: %v\n", evt.Err)
		}
	}
}

// Note prints an informational line below the bars.
func (b *Bar) Note(format string, args ...any) {
	if !b.enabled {
		return
	}
	b.stopBar()
	pterm.Info.Printf(format+"\n", args...)
}

// Warn prints a warning line below the bars.
func (b *Bar) Warn(format string, args ...any) {
	if !b.enabled {
		return
	}
	b.stopBar()
	pterm.Warning.Printf(format+"\n", args...)
}

// Stop finalizes any running bar and prints the completion line.
func (b *Bar) Stop() {
	if !b.enabled {
		return
	}
	b.stopBar()
	pterm.Success.Println("Complete")
}

func (b *Bar) stopBar() {
	if b.pb == nil {
		return
	}
	_, _ = b.pb.Stop()
	b.pb = nil
}

func title(stage stats.Stage) string {
	switch stage {
	case stats.StageEML:
		return "Processing .eml files"
	case stats.StagePDF:
		return "Processing PDF files"
	}
	return "Processing " + string(stage)
}

// PassSummary renders the closing line of a pass, e.g.
// "Processed 12 EMLs, skipped 2 other files".
func PassSummary(kind string, t stats.Tally) string {
	if t.Skipped > 0 {
		return fmt.Sprintf("Processed %d %s, skipped %d other files", t.Matched, kind, t.Skipped)
	}
	return fmt.Sprintf("Processed %d %s", t.Matched, kind)
}
