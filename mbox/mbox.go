// Package mbox turns an mbox archive into a directory of .eml files that the
// message pass can log.
package mbox

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	mboxlib "github.com/emersion/go-mbox"

	"github.com/dhcgn/exemption-log/eml"
	"github.com/dhcgn/exemption-log/filter"
	"github.com/dhcgn/exemption-log/stats"
)

type Options struct {
	Path   string
	OutDir string
	// Prefix is prepended to the 1-based message number in each file name.
	Prefix string
	Filter filter.Options
}

type Summary struct {
	Written  int
	Filtered int
	Hits     map[string]int
}

// Exploder writes every message of an archive that passes its filter to
// OutDir as <Prefix><nnnn>.eml. Numbers follow the archive order, so a
// message keeps its name when filters change.
type Exploder struct {
	opts   Options
	filter *filter.Filter
	logger *slog.Logger
	emit   func(stats.Event)
}

func NewExploder(opts Options, logger *slog.Logger) (*Exploder, error) {
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is empty")
	}
	f, err := filter.New(opts.Filter)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Exploder{opts: opts, filter: f, logger: logger, emit: func(stats.Event) {}}, nil
}

// Subscribe sets the receiver of written and filtered events.
func (x *Exploder) Subscribe(fn func(stats.Event)) {
	x.emit = fn
}

// Explode opens the archive at Options.Path.
func (x *Exploder) Explode() (Summary, error) {
	path := strings.TrimSpace(x.opts.Path)
	if path == "" {
		return Summary{}, fmt.Errorf("mbox path is empty")
	}
	file, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open mbox: %w", err)
	}
	defer file.Close()
	return x.ExplodeReader(file)
}

// ExplodeReader reads an archive from r.
func (x *Exploder) ExplodeReader(r io.Reader) (Summary, error) {
	if err := os.MkdirAll(x.opts.OutDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output directory: %w", err)
	}

	var sum Summary
	reader := mboxlib.NewReader(r)
	for idx := 1; ; idx++ {
		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return sum, fmt.Errorf("message %d: %w", idx, err)
		}

		raw, err := io.ReadAll(msgReader)
		if err != nil {
			return sum, fmt.Errorf("message %d read: %w", idx, err)
		}

		name := fmt.Sprintf("%s%04d%s", x.opts.Prefix, idx, eml.Ext)
		header, body := filter.SplitRawMessage(raw)
		if !x.filter.Allows(header, body) {
			sum.Filtered++
			x.emit(stats.Event{Stage: stats.StageMbox, Type: stats.EventTypeFiltered, File: name})
			continue
		}

		if err := os.WriteFile(filepath.Join(x.opts.OutDir, name), raw, 0o644); err != nil {
			return sum, fmt.Errorf("message %d write: %w", idx, err)
		}
		sum.Written++
		x.emit(stats.Event{Stage: stats.StageMbox, Type: stats.EventTypeWritten, File: name})
		x.logger.Debug("message written", "file", name, "size", len(raw))
	}

	if x.filter.Active() {
		sum.Hits = x.filter.Hits()
	}
	return sum, nil
}
