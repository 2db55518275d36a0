// Package prompt asks the operator for the directories of a run.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// Dirs are the three directories a run needs. PDF may be empty.
type Dirs struct {
	EML string
	PDF string
	Out string
}

// Directories asks for every directory not already set in in and returns
// the completed set.
func Directories(in Dirs) (Dirs, error) {
	d := in
	var fields []huh.Field
	if d.EML == "" {
		fields = append(fields, huh.NewInput().
			Title("Folder that contains the EMLs").
			Placeholder(`C:\exports\emls`).
			Value(&d.EML).
			Validate(validateDir(false)))
	}
	if d.PDF == "" {
		fields = append(fields, huh.NewInput().
			Title("Folder that contains the PDFs").
			Description("Leave empty to skip page counts.").
			Value(&d.PDF).
			Validate(validateDir(true)))
	}
	if d.Out == "" {
		fields = append(fields, huh.NewInput().
			Title("Folder where the log should be saved").
			Value(&d.Out).
			Validate(validateDir(false)))
	}
	if len(fields) == 0 {
		return Clean(d), nil
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return Dirs{}, fmt.Errorf("prompt aborted: %w", err)
		}
		return Dirs{}, fmt.Errorf("prompt: %w", err)
	}
	return Clean(d), nil
}

// Clean strips surrounding whitespace and the double quotes a file manager
// adds when a path is pasted.
func Clean(d Dirs) Dirs {
	return Dirs{
		EML: cleanPath(d.EML),
		PDF: cleanPath(d.PDF),
		Out: cleanPath(d.Out),
	}
}

func cleanPath(p string) string {
	return strings.Trim(strings.TrimSpace(p), `"`)
}

func validateDir(optional bool) func(string) error {
	return func(s string) error {
		p := cleanPath(s)
		if p == "" {
			if optional {
				return nil
			}
			return errors.New("a folder is required")
		}
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("cannot open %s", p)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a folder", p)
		}
		return nil
	}
}
