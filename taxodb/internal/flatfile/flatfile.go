// Package flatfile writes taxonomy records in the EMBL-like flat databank
// layout:
//
//	ID   <taxid>;
//	XX
//	LI   <lineage ids>
//	XX
//	OS   <organism>;
//	OC   <classification>
//	//
package flatfile

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultWidth is the default maximum line length.
const DefaultWidth = 80

// prefixWidth is the tag plus its three spaces.
const prefixWidth = 5

var ErrWidth = errors.New("flat file width must exceed 5")

// Record is one taxon block.
type Record struct {
	ID string
	LI string
	OS string
	OC string
}

// Writer emits records to an underlying writer. Errors are sticky: after the
// first failure every call returns it.
type Writer struct {
	w     io.Writer
	width int
	err   error
	n     int
}

func NewWriter(w io.Writer, width int) (*Writer, error) {
	if width <= prefixWidth {
		return nil, fmt.Errorf("%w: got %d", ErrWidth, width)
	}
	return &Writer{w: w, width: width}, nil
}

// Records returns how many blocks were written.
func (fw *Writer) Records() int {
	return fw.n
}

func (fw *Writer) WriteRecord(rec Record) error {
	fw.printf("ID   %s;\n", rec.ID)
	fw.printf("XX\n")
	fw.wrap("LI", rec.LI)
	fw.printf("XX\n")
	fw.printf("OS   %s;\n", rec.OS)
	fw.wrap("OC", rec.OC)
	fw.printf("//\n")
	if fw.err == nil {
		fw.n++
	}
	return fw.err
}

// wrap splits line into chunks of at most width-5 bytes. A chunk not ending
// on ';', ' ' or the end of line is shortened back to the last ';' or ' '
// and the remainder starts the next chunk. A chunk without any break point
// is written whole.
func (fw *Writer) wrap(tag, line string) {
	size := fw.width - prefixWidth
	for _, chunk := range Wrap(line, size) {
		fw.printf("%s   %s\n", tag, chunk)
	}
}

// Wrap returns the trimmed chunks of line for a payload of size bytes.
func Wrap(line string, size int) []string {
	var chunks []string
	i := 0
	for i < len(line) {
		end := i + size
		if end > len(line) {
			end = len(line)
		}
		st := line[i:end]
		if last := st[len(st)-1]; end < len(line) && last != ';' && last != ' ' && last != '\n' {
			cut := len(st)
			for cut > 0 && st[cut-1] != ';' && st[cut-1] != ' ' {
				cut--
			}
			if cut > 0 {
				st = st[:cut]
			}
		}
		chunks = append(chunks, strings.TrimSpace(st))
		i += len(st)
	}
	return chunks
}

func (fw *Writer) printf(format string, args ...any) {
	if fw.err != nil {
		return
	}
	_, fw.err = fmt.Fprintf(fw.w, format, args...)
}
