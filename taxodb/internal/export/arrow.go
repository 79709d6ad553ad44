// Package export writes emitted key/value pairs as an Arrow IPC file so the
// mapping can be loaded by columnar tools without the embedded store.
package export

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// DefaultBatchRows is the number of rows per record batch.
const DefaultBatchRows = 64 * 1024

// Schema is the layout of every exported file.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "key", Type: arrow.BinaryTypes.String},
	{Name: "value", Type: arrow.BinaryTypes.String},
}, nil)

// Writer buffers rows and writes them as record batches.
type Writer struct {
	file      *os.File
	w         *ipc.FileWriter
	b         *array.RecordBuilder
	keys      *array.StringBuilder
	values    *array.StringBuilder
	batchRows int
	pending   int
	rows      int64
}

// Create opens path for writing. batchRows <= 0 selects DefaultBatchRows.
func Create(path string, batchRows int) (*Writer, error) {
	if batchRows <= 0 {
		batchRows = DefaultBatchRows
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	mem := memory.NewGoAllocator()
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(Schema), ipc.WithAllocator(mem))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("arrow writer: %w", err)
	}
	b := array.NewRecordBuilder(mem, Schema)
	return &Writer{
		file:      f,
		w:         w,
		b:         b,
		keys:      b.Field(0).(*array.StringBuilder),
		values:    b.Field(1).(*array.StringBuilder),
		batchRows: batchRows,
	}, nil
}

func (ew *Writer) Put(key, value string) error {
	ew.keys.Append(key)
	ew.values.Append(value)
	ew.pending++
	ew.rows++
	if ew.pending >= ew.batchRows {
		return ew.flush()
	}
	return nil
}

// Rows returns the number of rows accepted so far.
func (ew *Writer) Rows() int64 {
	return ew.rows
}

func (ew *Writer) flush() error {
	if ew.pending == 0 {
		return nil
	}
	rec := ew.b.NewRecord()
	defer rec.Release()
	ew.pending = 0
	if err := ew.w.Write(rec); err != nil {
		return fmt.Errorf("write arrow batch: %w", err)
	}
	return nil
}

// Close writes the remaining rows and the file footer.
func (ew *Writer) Close() error {
	err := ew.flush()
	ew.b.Release()
	if cerr := ew.w.Close(); err == nil {
		err = cerr
	}
	if cerr := ew.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadAll loads an exported file into a map, later rows winning.
func ReadAll(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("arrow reader: %w", err)
	}
	defer func() {
		_ = r.Close()
	}()
	if !r.Schema().Equal(Schema) {
		return nil, fmt.Errorf("unexpected schema %s", r.Schema())
	}
	out := make(map[string]string)
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return nil, fmt.Errorf("read batch %d: %w", i, err)
		}
		keys := rec.Column(0).(*array.String)
		values := rec.Column(1).(*array.String)
		for j := 0; j < keys.Len(); j++ {
			out[keys.Value(j)] = values.Value(j)
		}
	}
	return out, nil
}
