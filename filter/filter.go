// Package filter selects messages from an mbox archive by regular
// expressions over their raw header and body text.
package filter

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrFilterModeConflict = errors.New("include and exclude filters are mutually exclusive")

// Options lists the patterns of each kind. Include and exclude patterns
// cannot be combined.
type Options struct {
	IncludeHeader []string
	IncludeBody   []string
	ExcludeHeader []string
	ExcludeBody   []string
}

type pattern struct {
	re   *regexp.Regexp
	hits int
}

// Filter holds compiled patterns and counts how often each one matched.
type Filter struct {
	include bool
	header  []*pattern
	body    []*pattern
}

// New compiles the patterns in opts. Blank patterns are ignored.
func New(opts Options) (*Filter, error) {
	includeHeader, err := compile(opts.IncludeHeader)
	if err != nil {
		return nil, fmt.Errorf("compile include-header pattern: %w", err)
	}
	includeBody, err := compile(opts.IncludeBody)
	if err != nil {
		return nil, fmt.Errorf("compile include-body pattern: %w", err)
	}
	excludeHeader, err := compile(opts.ExcludeHeader)
	if err != nil {
		return nil, fmt.Errorf("compile exclude-header pattern: %w", err)
	}
	excludeBody, err := compile(opts.ExcludeBody)
	if err != nil {
		return nil, fmt.Errorf("compile exclude-body pattern: %w", err)
	}

	include := len(includeHeader) > 0 || len(includeBody) > 0
	exclude := len(excludeHeader) > 0 || len(excludeBody) > 0
	if include && exclude {
		return nil, ErrFilterModeConflict
	}

	if include {
		return &Filter{include: true, header: includeHeader, body: includeBody}, nil
	}
	return &Filter{header: excludeHeader, body: excludeBody}, nil
}

// Active reports whether any pattern was configured.
func (f *Filter) Active() bool {
	return len(f.header) > 0 || len(f.body) > 0
}

// Allows reports whether a message with the given raw header and body is
// kept. With no patterns every message is kept.
func (f *Filter) Allows(header, body []byte) bool {
	if !f.Active() {
		return true
	}
	inHeader := matchAny(f.header, header)
	inBody := matchAny(f.body, body)
	matched := inHeader || inBody
	if f.include {
		return matched
	}
	return !matched
}

// Hits returns the number of messages each pattern matched, keyed by the
// pattern source.
func (f *Filter) Hits() map[string]int {
	out := make(map[string]int, len(f.header)+len(f.body))
	for _, p := range f.header {
		out[p.re.String()] += p.hits
	}
	for _, p := range f.body {
		out[p.re.String()] += p.hits
	}
	return out
}

// SplitRawMessage splits a raw message at the first blank line.
func SplitRawMessage(raw []byte) (header, body []byte) {
	if len(raw) == 0 {
		return nil, nil
	}
	if idx := bytes.Index(raw, []byte("\r\n\r\n")); idx >= 0 {
		return raw[:idx], raw[idx+4:]
	}
	if idx := bytes.Index(raw, []byte("\n\n")); idx >= 0 {
		return raw[:idx], raw[idx+2:]
	}
	return raw, nil
}

func compile(sources []string) ([]*pattern, error) {
	out := make([]*pattern, 0, len(sources))
	for _, src := range sources {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", src, err)
		}
		out = append(out, &pattern{re: re})
	}
	return out, nil
}

// matchAny tries every pattern so each one's hit count stays accurate.
func matchAny(patterns []*pattern, text []byte) bool {
	matched := false
	for _, p := range patterns {
		if p.re.Match(text) {
			p.hits++
			matched = true
		}
	}
	return matched
}
