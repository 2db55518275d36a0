package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/araddon/dateparse"

	"github.com/dhcgn/exemption-log/eml"
	"github.com/dhcgn/exemption-log/model"
	"github.com/dhcgn/exemption-log/pdf"
	"github.com/dhcgn/exemption-log/stats"
)

var ErrNoMessages = errors.New("no message files found")

type Options struct {
	Scan    eml.Options
	Counter pdf.Counter
}

// Runner drives the message and PDF passes over their directories. Files are
// handled one at a time in directory order; the first failure aborts the
// pass.
type Runner struct {
	opts   Options
	logger *slog.Logger
	subs   []func(stats.Event)
	since  time.Time
}

func New(opts Options, logger *slog.Logger) *Runner {
	if opts.Counter == nil {
		opts.Counter = pdf.PDFCPU{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{opts: opts, logger: logger, since: time.Now()}
}

func (r *Runner) Logger() *slog.Logger {
	return r.logger
}

// Subscribe registers fn for every event emitted by later passes.
func (r *Runner) Subscribe(fn func(stats.Event)) {
	r.subs = append(r.subs, fn)
}

func (r *Runner) EmitEvent(evt stats.Event) {
	for _, fn := range r.subs {
		fn(evt)
	}
}

// ProcessMessages scans every message file in dir. Entries without the
// message extension are skipped and tallied. A directory with no message
// files is an error wrapping ErrNoMessages.
func (r *Runner) ProcessMessages(dir string) ([]model.Record, stats.Tally, error) {
	var tally stats.Tally

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, tally, r.fail(stats.StageEML, "", fmt.Errorf("read message directory: %w", err))
	}
	r.EmitEvent(stats.Event{Stage: stats.StageEML, Type: stats.EventTypeStarted, Total: len(entries)})

	records := make([]model.Record, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		id, ok := model.Identifier(name, eml.Ext)
		if !ok {
			tally.Skipped++
			r.EmitEvent(stats.Event{Stage: stats.StageEML, Type: stats.EventTypeSkipped, File: name})
			continue
		}

		rec, err := eml.ScanFile(filepath.Join(dir, name), id, r.opts.Scan)
		if err != nil {
			return nil, tally, r.fail(stats.StageEML, name, err)
		}
		r.checkDate(name, rec.Date)

		records = append(records, rec)
		tally.Matched++
		r.EmitEvent(stats.Event{Stage: stats.StageEML, Type: stats.EventTypeScanned, File: name})
	}

	if tally.Matched == 0 {
		return nil, tally, r.fail(stats.StageEML, "", fmt.Errorf("%s contains no %s files: %w", dir, eml.Ext, ErrNoMessages))
	}

	r.logger.Debug("message pass finished", "dir", dir, "matched", tally.Matched, "skipped", tally.Skipped, "duration", time.Since(r.since))
	return records, tally, nil
}

// ProcessPDFs counts the pages of every PDF in dir and stores the count on
// the record with the same identifier. PDFs without a matching record are
// counted as processed and otherwise ignored.
func (r *Runner) ProcessPDFs(dir string, records []model.Record) (stats.Tally, error) {
	var tally stats.Tally

	entries, err := os.ReadDir(dir)
	if err != nil {
		return tally, r.fail(stats.StagePDF, "", fmt.Errorf("read pdf directory: %w", err))
	}
	r.EmitEvent(stats.Event{Stage: stats.StagePDF, Type: stats.EventTypeStarted, Total: len(entries)})

	byID := make(map[string]int, len(records))
	for i, rec := range records {
		byID[rec.ID] = i
	}

	for _, entry := range entries {
		name := entry.Name()
		id, ok := model.Identifier(name, pdf.Ext)
		if !ok {
			tally.Skipped++
			r.EmitEvent(stats.Event{Stage: stats.StagePDF, Type: stats.EventTypeSkipped, File: name})
			continue
		}

		pages, err := r.opts.Counter.PageCount(filepath.Join(dir, name))
		if err != nil {
			return tally, r.fail(stats.StagePDF, name, &model.FileError{Name: name, Err: err})
		}

		tally.Matched++
		r.EmitEvent(stats.Event{Stage: stats.StagePDF, Type: stats.EventTypeScanned, File: name})

		idx, ok := byID[id]
		if !ok {
			r.logger.Debug("pdf has no matching message", "file", name)
			r.EmitEvent(stats.Event{Stage: stats.StagePDF, Type: stats.EventTypeUnmatched, File: name})
			continue
		}
		records[idx].PageCount = pages
		records[idx].HasPageCount = true
		r.EmitEvent(stats.Event{Stage: stats.StagePDF, Type: stats.EventTypeMerged, File: name})
	}

	return tally, nil
}

func (r *Runner) checkDate(file, date string) {
	if date == "" {
		return
	}
	if _, err := dateparse.ParseAny(date); err != nil {
		r.logger.Debug("date not recognised", "file", file, "date", date, "err", err)
	}
}

func (r *Runner) fail(stage stats.Stage, file string, err error) error {
	r.EmitEvent(stats.Event{Stage: stage, Type: stats.EventTypeError, File: file, Err: err})
	r.logger.Error("pass failed", "stage", stage, "file", file, "err", err)
	return err
}
