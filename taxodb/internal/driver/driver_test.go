package driver

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/export"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/inputs"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/logx"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/store"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/taxonomy"
)

const silvaFasta = `>silva||FJ805841.1.4128 Bacteria;Firmicutes;Clostridia;Clostridium botulinum
ACGUACGU
>AB001445.1.1538 Bacteria;Proteobacteria;Pseudomonas amygdali
ACGU
>XX000001.1.10 Bacteria
ACGU
`

const greengenesFasta = `>4038 X89044.1 termite hindgut clone sp5_18 k__Bacteria; p__Spirochaetes; s__sp5; otu_4136
ACGT
>gg||4039 X89045.1 soil clone k__Archaea; p__Crenarchaeota
ACGT
`

func dmp(fields ...string) string {
	return strings.Join(fields, "\t|\t") + "\t|\n"
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readStore(t *testing.T, path string) map[string]string {
	t.Helper()
	s, err := store.Open(store.Config{Path: path, ReadOnly: true})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = s.Close() }()
	out := make(map[string]string)
	err = s.ForEach(func(k, v []byte) error {
		out[string(k)] = string(v)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestBuildSilva(t *testing.T) {
	dir := t.TempDir()
	plan := Plan{
		DBType:    Silva,
		Fasta:     writeFile(t, dir, "silva.fasta", silvaFasta),
		StorePath: filepath.Join(dir, "silva.db"),
		ArrowPath: filepath.Join(dir, "silva.arrow"),
	}
	stats, err := Build(plan, Env{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if stats.Headers != 3 || stats.Records != 2 || stats.Skipped != 1 {
		t.Fatalf("stats %+v", stats)
	}
	got := readStore(t, plan.StorePath)
	if v := got["FJ805841"]; v != "Clostridium botulinum_@#$_Bacteria;Firmicutes;Clostridia" {
		t.Fatalf("FJ805841 got %q", v)
	}
	if v := got["AB001445"]; v != "Pseudomonas amygdali_@#$_Bacteria;Proteobacteria" {
		t.Fatalf("AB001445 got %q", v)
	}
	exported, err := export.ReadAll(plan.ArrowPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(exported) != 2 || exported["FJ805841"] != got["FJ805841"] {
		t.Fatalf("arrow export %v", exported)
	}
}

func TestBuildGreengenes(t *testing.T) {
	dir := t.TempDir()
	plan := Plan{
		DBType:    Greengenes,
		Fasta:     writeFile(t, dir, "gg.fasta", greengenesFasta),
		StorePath: filepath.Join(dir, "gg.db"),
	}
	if _, err := Build(plan, Env{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	got := readStore(t, plan.StorePath)
	if v := got["4038"]; v != "termite hindgut clone sp5_18_@#$_Bacteria; Spirochaetes; sp5; " {
		t.Fatalf("4038 got %q", v)
	}
	if v := got["4039"]; v != "soil clone_@#$_Archaea; Crenarchaeota" {
		t.Fatalf("4039 got %q", v)
	}
}

func TestBuildGreengenesMalformedIsFatal(t *testing.T) {
	dir := t.TempDir()
	plan := Plan{
		DBType:    Greengenes,
		Fasta:     writeFile(t, dir, "gg.fasta", greengenesFasta+">77 X1 no taxonomy here\nACGT\n"),
		StorePath: filepath.Join(dir, "gg.db"),
	}
	_, err := Build(plan, Env{})
	if err == nil || !strings.Contains(err.Error(), "line 5") {
		t.Fatalf("got %v, want malformed header error at line 5", err)
	}
}

func ncbiFixture(t *testing.T, dir string) (names, nodes string) {
	nodes = writeFile(t, dir, "nodes.dmp",
		dmp("1", "1", "no rank", "", "8")+
			dmp("2", "1", "genus", "", "0")+
			dmp("3", "2", "species", "", "0")+
			dmp("4", "3", "no rank", "", "0")+
			dmp("3", "1", "genus", "", "0"))
	names = writeFile(t, dir, "names.dmp",
		dmp("1", "root", "", "scientific name")+
			dmp("2", "Genusa", "", "scientific name")+
			dmp("3", "Genusa species", "", "scientific name")+
			dmp("3", "G. species", "", "synonym")+
			dmp("4", "Genusa species strain X", "", "scientific name")+
			dmp("42", "Lost", "", "scientific name"))
	return names, nodes
}

func TestBuildNCBI(t *testing.T) {
	dir := t.TempDir()
	names, nodes := ncbiFixture(t, dir)
	var stderr bytes.Buffer
	env := Env{Log: logx.New(logx.Options{ErrOut: &stderr})}
	plan := Plan{
		DBType:    NCBI,
		Names:     names,
		Nodes:     nodes,
		Format:    taxonomy.FormatFull,
		StorePath: filepath.Join(dir, "ncbi.db"),
		FlatPath:  filepath.Join(dir, "ncbi.flat"),
	}
	stats, err := Build(plan, env)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if stats.Selected != 2 || stats.FlatRecords != 2 || stats.Records != 3 {
		t.Fatalf("stats %+v", stats)
	}
	if stats.Warnings != 2 || stats.Taxonomy.Duplicates != 1 || stats.Taxonomy.Orphans != 1 {
		t.Fatalf("warnings %d taxonomy %+v stderr %q", stats.Warnings, stats.Taxonomy, stderr.String())
	}

	got := readStore(t, plan.StorePath)
	want := map[string]string{
		"Genusa species":          "Genusa (genus); ",
		"G. species":              "Genusa (genus); ",
		"Genusa species strain X": "Genusa (genus); Genusa species (species); ",
	}
	if len(got) != len(want) {
		t.Fatalf("store got %v", got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%q got %q want %q", k, got[k], v)
		}
	}

	flat, err := os.ReadFile(plan.FlatPath)
	if err != nil {
		t.Fatal(err)
	}
	wantFlat := "ID   3;\nXX\nLI   2;\nXX\nOS   Genusa species;\nOC   Genusa (genus);\n//\n" +
		"ID   4;\nXX\nLI   2; 3;\nXX\nOS   Genusa species strain X;\nOC   Genusa (genus); Genusa species (species);\n//\n"
	if string(flat) != wantFlat {
		t.Fatalf("flat file got\n%s\nwant\n%s", flat, wantFlat)
	}
}

func TestBuildNCBIFlatOnlyGzipWithLineage(t *testing.T) {
	dir := t.TempDir()
	names, nodes := ncbiFixture(t, dir)
	plain := Plan{
		DBType:   NCBI,
		Names:    names,
		Nodes:    nodes,
		Format:   taxonomy.FormatPartial,
		FlatPath: filepath.Join(dir, "ncbi.flat"),
	}
	if _, err := Build(plain, Env{}); err != nil {
		t.Fatalf("plain build: %v", err)
	}
	gz := plain
	gz.UseLineage = true
	gz.FlatPath = filepath.Join(dir, "ncbi.flat.gz")
	stats, err := Build(gz, Env{})
	if err != nil {
		t.Fatalf("gzip build: %v", err)
	}
	if stats.FlatRecords != 3 {
		t.Fatalf("flat records got %d want 3", stats.FlatRecords)
	}

	want, err := os.ReadFile(plain.FlatPath)
	if err != nil {
		t.Fatal(err)
	}
	in, err := inputs.Open(gz.FlatPath)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = in.Close() }()
	got, err := io.ReadAll(in)
	if err != nil {
		t.Fatalf("read gzip flat file: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("gzip flat file with lineage cache differs:\n%s\nwant\n%s", got, want)
	}
	if !bytes.HasPrefix(want, []byte("ID   2;\nXX\nXX\nOS   Genusa;\n//\nID   3;\n")) {
		t.Fatalf("partial flat file got\n%s", want)
	}
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()
	names, nodes := ncbiFixture(t, dir)
	fa := writeFile(t, dir, "x.fasta", silvaFasta)
	db := filepath.Join(dir, "out.db")

	tests := []struct {
		name string
		plan Plan
		want error
	}{
		{"unknown type", Plan{DBType: "rdp", StorePath: db}, ErrUnsupportedDBType},
		{"missing fasta", Plan{DBType: Silva, StorePath: db}, ErrMissingRequiredInput},
		{"absent fasta", Plan{DBType: Silva, Fasta: filepath.Join(dir, "nope.fa"), StorePath: db}, ErrFileNotFound},
		{"fasta with dmp", Plan{DBType: Silva, Fasta: fa, Nodes: nodes, StorePath: db}, ErrIncompatibleInputs},
		{"ncbi with fasta", Plan{DBType: NCBI, Fasta: fa, Names: names, Nodes: nodes, StorePath: db}, ErrIncompatibleInputs},
		{"missing names", Plan{DBType: NCBI, Nodes: nodes, StorePath: db}, ErrMissingRequiredInput},
		{"absent nodes", Plan{DBType: NCBI, Names: names, Nodes: filepath.Join(dir, "gone.dmp"), StorePath: db}, ErrFileNotFound},
		{"bad format", Plan{DBType: NCBI, Names: names, Nodes: nodes, Format: "short", StorePath: db}, ErrUnsupportedFormat},
		{"no output", Plan{DBType: NCBI, Names: names, Nodes: nodes}, ErrMissingRequiredInput},
		{"store dir missing", Plan{DBType: Silva, Fasta: fa, StorePath: filepath.Join(dir, "no", "such", "dir.db")}, ErrStoreOpen},
	}
	for _, tt := range tests {
		_, err := Build(tt.plan, Env{})
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: got %v want %v", tt.name, err, tt.want)
		}
	}
}

func TestParseDBType(t *testing.T) {
	if got, err := ParseDBType("NCBI"); err != nil || got != NCBI {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := ParseDBType(""); !errors.Is(err, ErrMissingRequiredInput) {
		t.Fatalf("got %v", err)
	}
	if _, err := ParseDBType("rdp"); !errors.Is(err, ErrUnsupportedDBType) {
		t.Fatalf("got %v", err)
	}
}

type countingProgress struct {
	ticks    int
	finished bool
}

func (c *countingProgress) Increment() { c.ticks++ }
func (c *countingProgress) Finish()    { c.finished = true }

func TestProgressFactoryIsUsed(t *testing.T) {
	dir := t.TempDir()
	bars := map[string]*countingProgress{}
	env := Env{Progress: func(path, label string) Progress {
		p := &countingProgress{}
		bars[label] = p
		return p
	}}
	plan := Plan{
		DBType:    Silva,
		Fasta:     writeFile(t, dir, "silva.fasta", silvaFasta),
		StorePath: filepath.Join(dir, "silva.db"),
	}
	if _, err := Build(plan, env); err != nil {
		t.Fatal(err)
	}
	p := bars["silva"]
	if p == nil || p.ticks != 6 || !p.finished {
		t.Fatalf("progress %+v", p)
	}
}
