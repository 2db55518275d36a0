// Package eml scans a single exported message file for the fields of an
// exemption log row.
package eml

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/dhcgn/exemption-log/header"
	"github.com/dhcgn/exemption-log/model"
)

// Ext is the extension a message file must end with.
const Ext = ".eml"

var ErrInvalidEncoding = errors.New("line is not valid UTF-8")

// State is the scanner's position in its lifecycle.
type State int

const (
	StateScanning State = iota
	StateComplete
	StateError
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateComplete:
		return "complete"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Strategy controls when a scan may stop before the end of the file.
type Strategy int

const (
	// FastPath stops as soon as sender, subject, date and at least one
	// recipient are known. Messages list their headers before the body, so
	// nothing after that point can add a field.
	FastPath Strategy = iota
	// FullScan reads to the end of the file. A second From: header still
	// ends extraction so quoted replies cannot overwrite the real fields.
	FullScan
)

// Options configures a Scanner.
type Options struct {
	Strategy Strategy
	FoldCase bool
}

// Scanner extracts one Record from one message. It is not reusable.
type Scanner struct {
	opts    Options
	matcher header.Matcher
	folder  header.Folder
	state   State

	rec        model.Record
	recipients header.RecipientList

	haveSender  bool
	haveSubject bool
	haveDate    bool
	seenFrom    bool
}

func NewScanner(opts Options) *Scanner {
	return &Scanner{
		opts:    opts,
		matcher: header.Matcher{FoldCase: opts.FoldCase},
	}
}

// State returns where the scanner stopped.
func (s *Scanner) State() State {
	return s.state
}

// Scan reads physical lines from r until the message is complete, a second
// From: header appears, or input ends.
func (s *Scanner) Scan(r io.Reader) (model.Record, error) {
	if s.state != StateScanning {
		return model.Record{}, fmt.Errorf("scanner already %s", s.state)
	}

	br := bufio.NewReader(r)
	for lineNo := 1; s.state == StateScanning; lineNo++ {
		line, err := br.ReadString('\n')
		if line != "" {
			if !utf8.ValidString(line) {
				s.state = StateError
				return model.Record{}, fmt.Errorf("line %d: %w", lineNo, ErrInvalidEncoding)
			}
			s.step(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			s.state = StateError
			return model.Record{}, fmt.Errorf("read line %d: %w", lineNo, err)
		}
	}

	if s.state == StateScanning {
		if blk, ok := s.folder.Flush(); ok {
			s.apply(blk)
		}
		s.state = StateComplete
	}

	rec := s.rec
	rec.Recipients = s.recipients.String()
	return rec, nil
}

func (s *Scanner) step(line string) {
	if blk, ok := s.folder.Push(line); ok {
		s.apply(blk)
	}

	if s.opts.Strategy == FastPath && s.complete() {
		s.state = StateComplete
		return
	}

	if name, ok := s.matcher.Match(line); ok {
		if name == header.From {
			if s.seenFrom {
				s.state = StateComplete
				return
			}
			s.seenFrom = true
		}
		s.folder.Flag(name)
	}

	s.folder.Append(line)
}

func (s *Scanner) apply(blk header.Block) {
	f := header.Extract(blk)
	switch f.Name {
	case header.From:
		s.rec.Sender = f.Value
		s.haveSender = true
	case header.To, header.CC:
		s.recipients.Add(f.Recipients...)
	case header.Subject:
		s.rec.Subject = f.Value
		s.haveSubject = true
	case header.Date:
		s.rec.Date = f.Value
		s.haveDate = true
	}
}

func (s *Scanner) complete() bool {
	return s.recipients.Len() > 0 && s.haveSender && s.haveSubject && s.haveDate
}

// ScanFile scans the file at path and returns its Record keyed by id. Any
// failure is returned as a *model.FileError.
func ScanFile(path, id string, opts Options) (model.Record, error) {
	name := filepath.Base(path)

	file, err := os.Open(path)
	if err != nil {
		return model.Record{}, &model.FileError{Name: name, Err: err}
	}
	defer file.Close()

	rec, err := NewScanner(opts).Scan(file)
	if err != nil {
		return model.Record{}, &model.FileError{Name: name, Err: err}
	}
	rec.ID = id
	return rec, nil
}
