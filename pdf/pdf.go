// Package pdf counts pages of the PDF attachments exported next to the
// messages.
package pdf

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Ext is the extension a PDF file must end with.
const Ext = ".pdf"

// Counter reports the number of pages in a PDF file.
type Counter interface {
	PageCount(path string) (int, error)
}

// PDFCPU counts pages with pdfcpu.
type PDFCPU struct{}

func (PDFCPU) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

// CounterFunc adapts a function to Counter.
type CounterFunc func(path string) (int, error)

func (f CounterFunc) PageCount(path string) (int, error) {
	return f(path)
}
