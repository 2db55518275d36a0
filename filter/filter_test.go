package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Allows(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		header string
		body   string
		want   bool
	}{
		{name: "no patterns", header: "Subject: anything", want: true},
		{name: "include header hit", opts: Options{IncludeHeader: []string{"Subject: FOIA"}}, header: "Subject: FOIA request 12", want: true},
		{name: "include header miss", opts: Options{IncludeHeader: []string{"Subject: FOIA"}}, header: "Subject: lunch", want: false},
		{name: "include body hit", opts: Options{IncludeBody: []string{"(?i)invoice"}}, header: "Subject: x", body: "Your INVOICE", want: true},
		{name: "exclude header hit", opts: Options{ExcludeHeader: []string{"^From: .*newsletter"}}, header: "From: newsletter@x.com", want: false},
		{name: "exclude miss keeps message", opts: Options{ExcludeBody: []string{"unsubscribe"}}, body: "regular text", want: true},
		{name: "blank patterns ignored", opts: Options{IncludeHeader: []string{"  "}}, header: "Subject: x", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Allows([]byte(tt.header), []byte(tt.body)))
		})
	}
}

func TestFilter_MutuallyExclusive(t *testing.T) {
	_, err := New(Options{IncludeHeader: []string{"a"}, ExcludeBody: []string{"b"}})
	assert.True(t, errors.Is(err, ErrFilterModeConflict))
}

func TestFilter_BadPattern(t *testing.T) {
	_, err := New(Options{ExcludeHeader: []string{"("}})
	assert.Error(t, err)
}

func TestFilter_Hits(t *testing.T) {
	f, err := New(Options{IncludeHeader: []string{"Subject: a"}, IncludeBody: []string{"b"}})
	require.NoError(t, err)

	f.Allows([]byte("Subject: a"), []byte("b"))
	f.Allows([]byte("Subject: a"), []byte("c"))
	f.Allows([]byte("Subject: z"), []byte("c"))

	assert.Equal(t, map[string]int{"Subject: a": 2, "b": 1}, f.Hits())
}

func TestSplitRawMessage(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantHeader string
		wantBody   string
	}{
		{name: "CRLF separator", raw: "Header: value\r\n\r\nBody content", wantHeader: "Header: value", wantBody: "Body content"},
		{name: "LF separator", raw: "Header: value\n\nBody content", wantHeader: "Header: value", wantBody: "Body content"},
		{name: "no separator", raw: "All header content", wantHeader: "All header content"},
		{name: "empty message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body := SplitRawMessage([]byte(tt.raw))
			assert.Equal(t, tt.wantHeader, string(header))
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}
