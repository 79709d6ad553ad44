package fasta

import (
	"errors"
	"strings"
	"testing"
)

func TestSilva(t *testing.T) {
	tests := []struct {
		header string
		want   Record
		ok     bool
	}{
		{
			header: "silva||FJ805841.1.4128 Bacteria;Firmicutes;Clostridia;Clostridium botulinum",
			want:   Record{Accession: "FJ805841", Taxonomy: "Bacteria;Firmicutes;Clostridia", Organism: "Clostridium botulinum"},
			ok:     true,
		},
		{
			header: "AB001445.1.1538 Bacteria;Proteobacteria;Gammaproteobacteria;Pseudomonas amygdali pv. morsprunorum",
			want:   Record{Accession: "AB001445", Taxonomy: "Bacteria;Proteobacteria;Gammaproteobacteria", Organism: "Pseudomonas amygdali pv. morsprunorum"},
			ok:     true,
		},
		{
			header: "AB001445.1.1538 Bacteria",
			want:   Record{Accession: "AB001445", Organism: "Bacteria"},
			ok:     false,
		},
		{header: "", ok: false},
	}
	for _, tt := range tests {
		got, ok, err := Silva(tt.header, DefaultSourceSeparator)
		if err != nil {
			t.Fatalf("%q: %v", tt.header, err)
		}
		if ok != tt.ok || got != tt.want {
			t.Fatalf("%q: got %+v,%v want %+v,%v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestGreengenes(t *testing.T) {
	tests := []struct {
		header string
		want   Record
	}{
		{
			header: "4038 X89044.1 termite hindgut clone sp5_18 k__Bacteria; p__Spirochaetes; s__sp5; otu_4136",
			want:   Record{Accession: "4038", Organism: "termite hindgut clone sp5_18", Taxonomy: "Bacteria; Spirochaetes; sp5; "},
		},
		{
			header: "gg||4038 X89044.1 termite hindgut clone sp5_18 k__Bacteria; p__Spirochaetes; c__Spirochaetes (class); o__Spirochaetales; f__Spirochaetaceae; g__Treponema; s__sp5",
			want:   Record{Accession: "4038", Organism: "termite hindgut clone sp5_18", Taxonomy: "Bacteria; Spirochaetes; Spirochaetes (class); Spirochaetales; Spirochaetaceae; Treponema; sp5"},
		},
		{
			header: "gg||abc X1 uncultured k__Archaea; otu_1",
			want:   Record{Accession: "gg||abc", Organism: "uncultured", Taxonomy: "Archaea; "},
		},
	}
	for _, tt := range tests {
		got, ok, err := Greengenes(tt.header, DefaultSourceSeparator)
		if err != nil {
			t.Fatalf("%q: %v", tt.header, err)
		}
		if !ok || got != tt.want {
			t.Fatalf("%q:\ngot  %+v\nwant %+v", tt.header, got, tt.want)
		}
	}
}

func TestGreengenesWithoutOrganismIsSkipped(t *testing.T) {
	_, ok, err := Greengenes("12 X1 k__Bacteria; otu_2", DefaultSourceSeparator)
	if err != nil || ok {
		t.Fatalf("got ok=%v err=%v, want skipped", ok, err)
	}
}

func TestGreengenesMissingKingdomIsFatal(t *testing.T) {
	_, _, err := Greengenes("4038 X89044.1 termite hindgut clone", DefaultSourceSeparator)
	if !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("got %v want ErrMalformedHeader", err)
	}
}

func TestScanHeaders(t *testing.T) {
	in := ">a desc\r\nACGT\nACGT\n\n>b\nTT\n"
	var got []Header
	err := ScanHeaders(strings.NewReader(in), nil, func(h Header) error {
		got = append(got, h)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []Header{{Line: 1, Text: "a desc"}, {Line: 5, Text: "b"}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestScanHeadersStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := ScanHeaders(strings.NewReader(">a\n>b\n"), nil, func(Header) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Fatalf("err %v calls %d", err, calls)
	}
}
