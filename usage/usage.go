// Package usage appends one line per run to a shared CSV usage log.
package usage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
)

// DefaultPath is relative to the working directory.
const DefaultPath = "usage_log.csv"

// ErrLogBusy is returned when the log cannot be opened because another
// process holds it (typically a spreadsheet program on Windows).
var ErrLogBusy = errors.New("usage log is in use")

var columns = []string{
	"Start Time", "Run Time", "EMLs Logged", "PDFs Logged",
	"EML Directory", "PDF Directory", "Log Directory",
}

type Entry struct {
	Start      time.Time
	RunTime    time.Duration
	EMLsLogged int
	PDFsLogged int
	EMLDir     string
	PDFDir     string
	LogDir     string
}

func (e Entry) record() []string {
	return []string{
		e.Start.Format("2006-01-02 15:04:05.000000"),
		e.RunTime.String(),
		strconv.Itoa(e.EMLsLogged),
		strconv.Itoa(e.PDFsLogged),
		e.EMLDir,
		e.PDFDir,
		e.LogDir,
	}
}

// Append adds e to the log at path. The header row is written only when the
// file is created by this call.
func Append(path string, e Entry) error {
	file, created, err := open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrLogBusy, path)
		}
		return fmt.Errorf("open usage log: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if created {
		if err := w.Write(columns); err != nil {
			return fmt.Errorf("write usage header: %w", err)
		}
	}
	if err := w.Write(e.record()); err != nil {
		return fmt.Errorf("write usage entry: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush usage log: %w", err)
	}
	return file.Close()
}

func open(path string) (*os.File, bool, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err == nil {
		return file, true, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return nil, false, err
	}
	file, err = os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	return file, false, err
}
