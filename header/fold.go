package header

import "strings"

// Block is one reconstructed header: the lines of a header start plus every
// continuation line that followed it, kept verbatim.
type Block struct {
	Name Name
	Raw  string
}

// Value returns the header value with the "Name:" prefix removed and the
// folding characters (line breaks and tabs) dropped. Surrounding spaces are
// left for the field parsers to trim.
func (b Block) Value() string {
	v := b.Raw
	if len(v) >= len(b.Name.Prefix()) {
		v = v[len(b.Name.Prefix()):]
	}
	return unfoldReplacer.Replace(v)
}

var unfoldReplacer = strings.NewReplacer("\r", "", "\n", "", "\t", "")

// Folder reverses line folding. Lines are pushed in file order; the block
// being collected is handed back once a line that is not a continuation
// arrives, but only when it was flagged as a header of interest.
type Folder struct {
	buf     strings.Builder
	name    Name
	flagged bool
}

// Push feeds one physical line, terminator included. When the line starts a
// new header and the block collected so far was flagged, that block is
// returned with ok set. The new line is not added to the buffer; call Flag
// if needed and then Append.
func (f *Folder) Push(line string) (Block, bool) {
	if IsContinuation(line) {
		return Block{}, false
	}
	blk, ok := f.take()
	f.reset()
	return blk, ok
}

// Flag marks the block being collected as one to extract.
func (f *Folder) Flag(name Name) {
	f.name = name
	f.flagged = true
}

// Append adds the line to the block being collected.
func (f *Folder) Append(line string) {
	f.buf.WriteString(line)
}

// Flush returns the flagged block still pending at end of input.
func (f *Folder) Flush() (Block, bool) {
	blk, ok := f.take()
	f.reset()
	return blk, ok
}

func (f *Folder) take() (Block, bool) {
	if !f.flagged {
		return Block{}, false
	}
	return Block{Name: f.name, Raw: f.buf.String()}, true
}

func (f *Folder) reset() {
	f.buf.Reset()
	f.name = ""
	f.flagged = false
}
