package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		ext    string
		want   string
		wantOK bool
	}{
		{name: "eml", file: "0001.eml", ext: ".eml", want: "0001", wantOK: true},
		{name: "pdf", file: "0001.pdf", ext: ".pdf", want: "0001", wantOK: true},
		{name: "upper case extension", file: "0001.EML", ext: ".eml"},
		{name: "other extension", file: "notes.txt", ext: ".eml"},
		{name: "bare extension", file: ".eml", ext: ".eml", want: "", wantOK: true},
		{name: "too short", file: "eml", ext: ".eml"},
		{name: "double extension", file: "a.eml.bak", ext: ".eml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Identifier(tt.file, tt.ext)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
