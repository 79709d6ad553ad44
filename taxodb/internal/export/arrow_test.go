package export

import (
	"path/filepath"
	"strconv"
	"testing"
)

func TestWriteReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxo.arrow")
	w, err := Create(path, 3)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 7; i++ {
		if err := w.Put("k"+strconv.Itoa(i), "v"+strconv.Itoa(i)); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	if err := w.Put("k0", "again"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if w.Rows() != 8 {
		t.Fatalf("rows got %d", w.Rows())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadAll(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("keys got %d want 7", len(got))
	}
	if got["k0"] != "again" || got["k6"] != "v6" {
		t.Fatalf("got %v", got)
	}
}

func TestEmptyExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.arrow")
	w, err := Create(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	got, err := ReadAll(path)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
}
