// Package inputs opens source files and creates output files, handling gzip
// transparently on both sides.
package inputs

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/pgzip"
)

const (
	// ScanBufferSize is the initial line buffer handed to bufio.Scanner.
	ScanBufferSize = 1024 * 1024
	// MaxLineSize bounds a single input line.
	MaxLineSize = 10 * 1024 * 1024

	writerBufferSize = 1 << 20
)

// ErrNotFound is returned when an input path does not name a regular file.
var ErrNotFound = errors.New("file not found")

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Require checks that path is set and is a readable regular file.
func Require(path, what string) error {
	if path == "" {
		return fmt.Errorf("%s input file is required", what)
	}
	if !FileExists(path) {
		return fmt.Errorf("can't find %s: %w", path, ErrNotFound)
	}
	return nil
}

type readCloser struct {
	reader io.Reader
	close  func() error
}

func (r readCloser) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

func (r readCloser) Close() error {
	return r.close()
}

// Open opens path for reading; a ".gz" suffix selects the gzip decoder.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return readCloser{
			reader: gz,
			close: func() error {
				_ = gz.Close()
				return f.Close()
			},
		}, nil
	}
	return f, nil
}

// NewScanner returns a line scanner sized for taxonomy dumps and FASTA headers.
func NewScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, ScanBufferSize)
	scanner.Buffer(buf, MaxLineSize)
	return scanner
}

// CountLines counts newline-terminated lines, plus a final unterminated one.
func CountLines(path string) (int, error) {
	in, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = in.Close()
	}()

	buf := make([]byte, 1024*1024)
	var count int
	var lastByte byte
	for {
		n, err := in.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			lastByte = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if lastByte != '\n' && lastByte != 0 {
		count++
	}
	return count, nil
}

// Output is a buffered output file, gzip-compressed when its path ends in ".gz".
type Output struct {
	*bufio.Writer
	file *os.File
	gz   io.Closer
}

// Create opens path for writing with the given permission.
func Create(path string, perm fs.FileMode) (*Output, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return &Output{Writer: bufio.NewWriterSize(f, writerBufferSize), file: f}, nil
	}
	pw, err := pgzip.NewWriterLevel(f, pgzip.DefaultCompression)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create gzip writer: %w", err)
	}
	if err := pw.SetConcurrency(1<<20, runtime.GOMAXPROCS(0)); err != nil {
		_ = pw.Close()
		_ = f.Close()
		return nil, fmt.Errorf("set gzip concurrency: %w", err)
	}
	return &Output{Writer: bufio.NewWriterSize(pw, writerBufferSize), file: f, gz: pw}, nil
}

// Close flushes buffered data, finishes the gzip stream if any, and closes
// the file. The first error wins.
func (o *Output) Close() error {
	err := o.Flush()
	if o.gz != nil {
		if cerr := o.gz.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := o.file.Close(); err == nil {
		err = cerr
	}
	return err
}
