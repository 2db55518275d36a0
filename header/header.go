// Package header reassembles folded email header lines and turns the headers
// an exemption log cares about into display fields.
package header

import "strings"

// Name identifies a header the log extracts.
type Name string

const (
	From    Name = "From"
	To      Name = "To"
	CC      Name = "CC"
	Subject Name = "Subject"
	Date    Name = "Date"
)

// Names lists the recognised headers in match order.
var Names = []Name{To, CC, Subject, Date, From}

// Prefix returns the literal line prefix for the header, e.g. "Subject:".
func (n Name) Prefix() string {
	return string(n) + ":"
}

// Matcher decides whether a physical line starts one of the recognised
// headers. By default a line must begin with the exact, case-sensitive
// prefix ("To:", "CC:", "Subject:", "Date:", "From:"); no leading
// whitespace is tolerated and "Cc:" is not "CC:". FoldCase relaxes only the
// letter case of the prefix.
type Matcher struct {
	FoldCase bool
}

// Match reports which recognised header line starts, if any.
func (m Matcher) Match(line string) (Name, bool) {
	for _, name := range Names {
		prefix := name.Prefix()
		if len(line) < len(prefix) {
			continue
		}
		head := line[:len(prefix)]
		if head == prefix || (m.FoldCase && strings.EqualFold(head, prefix)) {
			return name, true
		}
	}
	return "", false
}

// IsContinuation reports whether a physical line extends the previous
// header: it begins with a space or tab, or is a bare line break.
func IsContinuation(line string) bool {
	if line == "" {
		return false
	}
	switch line[0] {
	case ' ', '\t', '\n':
		return true
	}
	return line == "\r\n"
}
