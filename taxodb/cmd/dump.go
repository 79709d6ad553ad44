package cmd

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/store"
)

func runDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	bdb := fs.String("bdb", "", "Key-value store built by 'taxodb build'")
	backend := fs.String("store", string(store.BackendBolt), "Store backend: bolt or badger")
	limit := fs.Int("limit", 0, "Stop after this many pairs (0 = all)")
	if err := fs.Parse(args); err != nil {
		fatalf("parse args failed: %v", err)
	}

	s, err := openReadOnly(*bdb, *backend)
	if err != nil {
		fatalf("%v", err)
	}
	out := bufio.NewWriter(os.Stdout)
	_, err = dumpStore(s, out, *limit)
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fatalf("dump %s: %v", *bdb, err)
	}
}

var errStopDump = errors.New("dump limit reached")

func dumpStore(s store.Store, w io.Writer, limit int) (int, error) {
	var n int
	err := s.ForEach(func(k, v []byte) error {
		if limit > 0 && n >= limit {
			return errStopDump
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", k, v); err != nil {
			return err
		}
		n++
		return nil
	})
	if errors.Is(err, errStopDump) {
		err = nil
	}
	return n, err
}
