// Package fasta scans FASTA headers and extracts taxonomy records from the
// Silva and Greengenes header layouts.
package fasta

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/inputs"
)

// DefaultSourceSeparator splits a "source||accession" identifier.
const DefaultSourceSeparator = "||"

var ErrMalformedHeader = errors.New("malformed FASTA header")

// Header is one '>' line without the marker.
type Header struct {
	Line int64
	Text string
}

// Record is the taxonomy carried by one header.
type Record struct {
	Accession string
	Organism  string
	Taxonomy  string
}

// Complete reports whether every field is set; incomplete records are not
// stored.
func (r Record) Complete() bool {
	return r.Accession != "" && r.Organism != "" && r.Taxonomy != ""
}

// Progress receives one tick per scanned line.
type Progress interface {
	Increment()
}

// ScanHeaders calls onHeader for every header line of r. Sequence lines are
// skipped without being buffered.
func ScanHeaders(r io.Reader, progress Progress, onHeader func(Header) error) error {
	scanner := inputs.NewScanner(r)
	var lineNum int64
	for scanner.Scan() {
		lineNum++
		if progress != nil {
			progress.Increment()
		}
		line := scanner.Bytes()
		if len(line) == 0 || line[0] != '>' {
			continue
		}
		text := strings.TrimRight(string(line[1:]), "\r")
		if err := onHeader(Header{Line: lineNum, Text: text}); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan fasta: %w", err)
	}
	return nil
}

// Extractor turns one header into a record. ok is false when the header
// carries nothing to store.
type Extractor func(header, sep string) (rec Record, ok bool, err error)

// Silva parses "accession[.start.stop] tax;tax;...;organism", optionally
// prefixed by "source||".
func Silva(header, sep string) (Record, bool, error) {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return Record{}, false, nil
	}
	id := fields[0]
	if parts := strings.Split(id, sep); len(parts) == 2 {
		id = parts[1]
	}
	acc, _, _ := strings.Cut(id, ".")

	ranks := strings.Split(strings.Join(fields[1:], " "), ";")
	rec := Record{
		Accession: acc,
		Organism:  ranks[len(ranks)-1],
		Taxonomy:  strings.Join(ranks[:len(ranks)-1], ";"),
	}
	return rec, rec.Complete(), nil
}

// Rank tags stripped from Greengenes taxonomies, applied in this order.
var greengenesTags = []string{"k__", "p__", "c__", "o__", "f__", "g__", "s__"}

// Greengenes parses "id accession organism k__...; p__...; ... [otu_N]",
// optionally with a "source||id" identifier. A header without "k__" is an
// error.
func Greengenes(header, sep string) (Record, bool, error) {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return Record{}, false, nil
	}
	acc := fields[0]
	if parts := strings.Split(acc, sep); len(parts) == 2 && isDigits(parts[1]) {
		acc = parts[1]
	}
	var rest string
	if len(fields) > 2 {
		rest = strings.Join(fields[2:], " ")
	}
	k := strings.Index(rest, "k__")
	if k < 0 {
		return Record{}, false, fmt.Errorf("%w: no k__ taxonomy in %q", ErrMalformedHeader, header)
	}
	taxo := rest[k:]
	if otu := strings.Index(rest, "otu_"); otu >= 0 {
		if otu >= k {
			taxo = rest[k:otu]
		} else {
			taxo = ""
		}
	}
	for _, tag := range greengenesTags {
		taxo = strings.ReplaceAll(taxo, tag, "")
	}
	rec := Record{
		Accession: acc,
		Organism:  strings.TrimSpace(rest[:k]),
		Taxonomy:  taxo,
	}
	return rec, rec.Complete(), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
