package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/driver"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/store"
)

func runLookup(args []string) {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	bdb := fs.String("bdb", "", "Key-value store built by 'taxodb build'")
	backend := fs.String("store", string(store.BackendBolt), "Store backend: bolt or badger")
	if err := fs.Parse(args); err != nil {
		fatalf("parse args failed: %v", err)
	}
	if fs.NArg() == 0 {
		fatalf("at least one key is required")
	}

	s, err := openReadOnly(*bdb, *backend)
	if err != nil {
		fatalf("%v", err)
	}
	out := bufio.NewWriter(os.Stdout)
	missing, err := lookupKeys(s, fs.Args(), out)
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fatalf("%v", err)
	}
	if missing > 0 {
		fatalf("%d key(s) not found", missing)
	}
}

func openReadOnly(path, backend string) (store.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: -bdb is required", driver.ErrMissingRequiredInput)
	}
	b, err := store.ParseBackend(backend)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("can't find %s: %w", path, driver.ErrFileNotFound)
	}
	s, err := store.Open(store.Config{Path: path, Backend: b, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", driver.ErrStoreOpen, path, err)
	}
	return s, nil
}

// lookupKeys prints one line per found key: key, then organism and
// taxonomy for FASTA-derived values or the OC string for NCBI ones.
func lookupKeys(s store.Store, keys []string, w io.Writer) (missing int, err error) {
	for _, key := range keys {
		v, err := s.Get([]byte(key))
		if err != nil {
			return missing, fmt.Errorf("get %q: %w", key, err)
		}
		if v == nil {
			missing++
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", key, formatValue(string(v))); err != nil {
			return missing, err
		}
	}
	return missing, nil
}

func formatValue(v string) string {
	if organism, taxo, ok := strings.Cut(v, driver.ValueSeparator); ok {
		return organism + "\t" + taxo
	}
	return v
}
