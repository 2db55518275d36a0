package header

import "strings"

// Field is the result of extracting one header block.
type Field struct {
	Name       Name
	Value      string
	Recipients []string
}

// Extract parses a finalized block into its display field. To and CC yield
// Recipients; every other header yields Value.
func Extract(b Block) Field {
	value := b.Value()
	switch b.Name {
	case From:
		return Field{Name: From, Value: ParseSender(value)}
	case To, CC:
		return Field{Name: b.Name, Recipients: SplitRecipients(value)}
	case Subject:
		return Field{Name: Subject, Value: ParseSubject(value)}
	case Date:
		return Field{Name: Date, Value: ReformatDate(value)}
	}
	return Field{Name: b.Name, Value: strings.TrimSpace(value)}
}

// ParseSender prefers the display name in front of the first "<" and falls
// back to the bare address.
//
//	"Jane Doe" <jane@x.com>  ->  Jane Doe
//	<jane@x.com>             ->  jane@x.com
func ParseSender(value string) string {
	alias, _, _ := strings.Cut(value, "<")
	if alias = strings.Trim(alias, `" `); alias != "" {
		return alias
	}
	return strings.Trim(value, `<>" `)
}

// SplitRecipients enumerates the recipients of a To or CC value and applies
// the ParseSender rule to each one.
//
// Recipients are separated by the literal ">, ", which assumes every address
// but the last is bracketed. A display name that itself contains ">, " is
// split in two.
func SplitRecipients(value string) []string {
	pieces := strings.Split(value, ">, ")
	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		out = append(out, ParseSender(piece))
	}
	return out
}

// ParseSubject returns the subject verbatim, trimmed.
func ParseSubject(value string) string {
	return strings.TrimSpace(value)
}

// ReformatDate rewrites "<weekday>, <day> <month> <year> <time> <offset>" as
// "<month> <day> <year> <time>". The weekday is optional and any trailing
// "+hhmm"/"-hhmm" offset is dropped. Nothing is validated: a value that does
// not have this shape is reordered as far as its tokens allow and returned.
func ReformatDate(value string) string {
	s := strings.TrimSpace(value)
	if _, rest, ok := strings.Cut(s, ", "); ok {
		s = rest
	}
	if i := strings.Index(s, " +"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, " -"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)

	parts := strings.SplitN(s, " ", 3)
	switch len(parts) {
	case 3:
		return parts[1] + " " + parts[0] + " " + parts[2]
	case 2:
		return parts[1] + " " + parts[0]
	}
	return s
}

// RecipientList accumulates recipients across every To and CC block of a
// message. Entries are rendered quoted so display names containing commas
// survive the comma-joined column.
type RecipientList []string

// Add appends recipients in order.
func (l *RecipientList) Add(recipients ...string) {
	*l = append(*l, recipients...)
}

// Len returns the number of entries.
func (l RecipientList) Len() int {
	return len(l)
}

// String renders the list as `"a", "b"`.
func (l RecipientList) String() string {
	var sb strings.Builder
	for i, r := range l {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('"')
		sb.WriteString(r)
		sb.WriteByte('"')
	}
	return sb.String()
}
