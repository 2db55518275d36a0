package model

import "fmt"

// Record is one row of the exemption log, keyed by the message identifier.
type Record struct {
	ID         string
	Sender     string
	Recipients string
	Subject    string
	Date       string

	PageCount    int
	HasPageCount bool
}

// Identifier strips ext from fileName. The check looks only at the last
// len(ext) characters and is case-sensitive, so "a.EML" is not a message.
func Identifier(fileName, ext string) (string, bool) {
	if len(fileName) < len(ext) || fileName[len(fileName)-len(ext):] != ext {
		return "", false
	}
	return fileName[:len(fileName)-len(ext)], true
}

// FileError attaches the offending file name to a failure while reading one
// input file.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Name, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
