package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhcgn/exemption-log/header"
)

func TestMatcher_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		matcher header.Matcher
		line    string
		want    header.Name
		wantOK  bool
	}{
		{name: "from", line: "From: a <a@x.com>\n", want: header.From, wantOK: true},
		{name: "to", line: "To: b@x.com\n", want: header.To, wantOK: true},
		{name: "cc", line: "CC: c@x.com\n", want: header.CC, wantOK: true},
		{name: "subject", line: "Subject: hi\n", want: header.Subject, wantOK: true},
		{name: "date", line: "Date: Mon, 5 Jan 2024\n", want: header.Date, wantOK: true},
		{name: "lower case cc is ignored", line: "Cc: c@x.com\n"},
		{name: "leading space is ignored", line: " To: b@x.com\n"},
		{name: "other header", line: "Reply-To: r@x.com\n"},
		{name: "short line", line: "To\n"},
		{name: "fold case", matcher: header.Matcher{FoldCase: true}, line: "cc: c@x.com\n", want: header.CC, wantOK: true},
		{name: "fold case keeps colon", matcher: header.Matcher{FoldCase: true}, line: "Subjects: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.matcher.Match(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsContinuation(t *testing.T) {
	t.Parallel()

	assert.True(t, header.IsContinuation(" more\n"))
	assert.True(t, header.IsContinuation("\tmore\n"))
	assert.True(t, header.IsContinuation("\n"))
	assert.True(t, header.IsContinuation("\r\n"))
	assert.False(t, header.IsContinuation("To: x\n"))
	assert.False(t, header.IsContinuation("body text\n"))
	assert.False(t, header.IsContinuation(""))
}

func TestFolder_ReassemblesFlaggedBlocks(t *testing.T) {
	t.Parallel()

	lines := []string{
		"Received: from mx\n",
		"\tby relay\n",
		"To: \"Doe, Jane\" <jane@x.com>,\n",
		" \"Bob\" <b@x.com>\n",
		"Subject: hello\n",
	}

	var (
		f      header.Folder
		blocks []header.Block
		m      header.Matcher
	)
	for _, line := range lines {
		if blk, ok := f.Push(line); ok {
			blocks = append(blocks, blk)
		}
		if name, ok := m.Match(line); ok {
			f.Flag(name)
		}
		f.Append(line)
	}
	if blk, ok := f.Flush(); ok {
		blocks = append(blocks, blk)
	}

	require.Len(t, blocks, 2)
	assert.Equal(t, header.To, blocks[0].Name)
	assert.Equal(t, "To: \"Doe, Jane\" <jane@x.com>,\n \"Bob\" <b@x.com>\n", blocks[0].Raw)
	assert.Equal(t, ` "Doe, Jane" <jane@x.com>, "Bob" <b@x.com>`, blocks[0].Value())
	assert.Equal(t, header.Subject, blocks[1].Name)
	assert.Equal(t, " hello", blocks[1].Value())
}

func TestFolder_FlushWithoutFlag(t *testing.T) {
	t.Parallel()

	var f header.Folder
	f.Append("X-Mailer: test\n")
	_, ok := f.Flush()
	assert.False(t, ok)
}

func TestParseSender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  string
	}{
		{value: ` "Jane Doe" <jane@x.com>`, want: "Jane Doe"},
		{value: ` <jane@x.com>`, want: "jane@x.com"},
		{value: ` jane@x.com`, want: "jane@x.com"},
		{value: ` "" <jane@x.com>`, want: "jane@x.com"},
		{value: ` Jane <jane@x.com>`, want: "Jane"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, header.ParseSender(tt.value))
		})
	}
}

func TestSplitRecipients(t *testing.T) {
	t.Parallel()

	got := header.SplitRecipients(` "Doe, Jane" <jane@x.com>, "Bob" <b@x.com>`)
	assert.Equal(t, []string{"Doe, Jane", "Bob"}, got)

	got = header.SplitRecipients(` <a@x.com>, <b@x.com>`)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, got)

	got = header.SplitRecipients(` solo@x.com`)
	assert.Equal(t, []string{"solo@x.com"}, got)
}

func TestRecipientList_String(t *testing.T) {
	t.Parallel()

	var l header.RecipientList
	assert.Equal(t, "", l.String())

	l.Add("Doe, Jane", "Bob")
	l.Add("carol@x.com")
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, `"Doe, Jane", "Bob", "carol@x.com"`, l.String())
}

func TestReformatDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "full", value: " Mon, 5 Jan 2024 10:00:00 +0000", want: "Jan 5 2024 10:00:00"},
		{name: "negative offset", value: " Tue, 16 Apr 2019 08:12:01 -0500", want: "Apr 16 2019 08:12:01"},
		{name: "no weekday", value: " 5 Jan 2024 10:00:00 +0000", want: "Jan 5 2024 10:00:00"},
		{name: "no offset", value: " Mon, 5 Jan 2024 10:00:00", want: "Jan 5 2024 10:00:00"},
		{name: "zone comment follows offset", value: " Mon, 5 Jan 2024 10:00:00 +0000 (UTC)", want: "Jan 5 2024 10:00:00"},
		{name: "two tokens", value: " 5 Jan", want: "Jan 5"},
		{name: "one token", value: " garbage", want: "garbage"},
		{name: "empty", value: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, header.ReformatDate(tt.value))
		})
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	f := header.Extract(header.Block{Name: header.From, Raw: "From: \"Jane Doe\"\n <jane@x.com>\n"})
	assert.Equal(t, header.Field{Name: header.From, Value: "Jane Doe"}, f)

	f = header.Extract(header.Block{Name: header.CC, Raw: "CC: <a@x.com>\n"})
	assert.Equal(t, []string{"a@x.com"}, f.Recipients)

	f = header.Extract(header.Block{Name: header.Subject, Raw: "Subject: a long\n\tsubject line\n"})
	assert.Equal(t, "a longsubject line", f.Value)

	f = header.Extract(header.Block{Name: header.Date, Raw: "Date: Mon, 5 Jan 2024 10:00:00 +0000\n"})
	assert.Equal(t, "Jan 5 2024 10:00:00", f.Value)
}
