package inputs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateOpenRoundTripGzip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plain.txt", "packed.txt.gz"} {
		path := filepath.Join(dir, name)
		out, err := Create(path, 0o644)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := out.WriteString("ID   9606;\n//\n"); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := out.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}

		in, err := Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		data, err := io.ReadAll(in)
		_ = in.Close()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(data) != "ID   9606;\n//\n" {
			t.Fatalf("%s: got %q", name, data)
		}

		n, err := CountLines(path)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 2 {
			t.Fatalf("%s: lines got %d want 2", name, n)
		}
	}
}

func TestCountLinesUnterminated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.dmp")
	if err := os.WriteFile(path, []byte("a\nb\nc"), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err := CountLines(path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("got %d want 3", n)
	}
}

func TestRequire(t *testing.T) {
	if err := Require("", "names.dmp"); err == nil {
		t.Fatalf("expected error for empty path")
	}
	err := Require(filepath.Join(t.TempDir(), "missing.dmp"), "nodes.dmp")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v want ErrNotFound", err)
	}
}
