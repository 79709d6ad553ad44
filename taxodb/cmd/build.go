package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/driver"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/fasta"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/flatfile"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/logx"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/store"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/taxonomy"
)

func runBuild(args []string) {
	cfg, err := parseBuildArgs(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fatalf("%v", err)
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	log := logx.New(logx.Options{Verbose: cfg.Verbose, Color: useColor(cfg.NoColor)})
	plan, err := cfg.plan()
	if err != nil {
		fatalf("%v", err)
	}
	env := driver.Env{
		Log:      log,
		Clock:    logx.NewStopwatch(),
		Progress: progressFactory(cfg.Progress, log),
	}

	stats, err := driver.Build(plan, env)
	if err != nil {
		fatalf("%v", err)
	}
	logStats(log, stats)

	if cfg.Report != "" {
		if err := writeReport(cfg.Report, stats); err != nil {
			fatalf("%v", err)
		}
		log.Verbosef("Report written to %s", cfg.Report)
	}
}

func parseBuildArgs(args []string, output io.Writer) (buildConfig, error) {
	cfg := buildConfig{
		HeaderSep: fasta.DefaultSourceSeparator,
		Format:    string(taxonomy.FormatFull),
		Store:     string(store.BackendBolt),
		Mode:      "0666",
		Width:     flatfile.DefaultWidth,
	}

	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.DBType, "db-type", cfg.DBType, "Taxonomy database type: silva, greengenes or ncbi")
	fs.StringVar(&cfg.Fasta, "fasta", cfg.Fasta, "Silva or Greengenes FASTA file (.gz accepted)")
	fs.StringVar(&cfg.HeaderSep, "header-sep", cfg.HeaderSep, "Separator of a source||accession header prefix")
	fs.StringVar(&cfg.Names, "names", cfg.Names, "NCBI names.dmp")
	fs.StringVar(&cfg.Nodes, "nodes", cfg.Nodes, "NCBI nodes.dmp")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "NCBI taxa to emit: full (species level) or partial (every taxon)")
	fs.BoolVar(&cfg.UseLineage, "use-lineage", cfg.UseLineage, "Precompute every NCBI lineage before writing")
	fs.StringVar(&cfg.Bdb, "bdb", cfg.Bdb, "Output key-value store")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "Store backend: bolt or badger")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Octal permission of created outputs")
	fs.StringVar(&cfg.Flatdb, "flatdb", cfg.Flatdb, "Output NCBI flat file (.gz compresses)")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Flat file line width")
	fs.StringVar(&cfg.Arrow, "arrow", cfg.Arrow, "Also export every key/value pair to an Arrow IPC file")
	fs.StringVar(&cfg.Report, "report", cfg.Report, "Write run statistics as JSON")
	fs.StringVar(&cfg.config, "config", "", "TOML file with defaults for any of these options")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose mode")
	fs.BoolVar(&cfg.Progress, "progress", cfg.Progress, "Show progress bars")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable coloured output")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if cfg.config != "" {
		if err := applyConfigFile(fs, &cfg, cfg.config); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func (c buildConfig) plan() (driver.Plan, error) {
	dbType, err := driver.ParseDBType(c.DBType)
	if err != nil {
		return driver.Plan{}, err
	}
	format, err := taxonomy.ParseFormat(c.Format)
	if err != nil {
		return driver.Plan{}, err
	}
	mode, err := parseMode(c.Mode)
	if err != nil {
		return driver.Plan{}, err
	}
	return driver.Plan{
		DBType:     dbType,
		Fasta:      c.Fasta,
		HeaderSep:  c.HeaderSep,
		Names:      c.Names,
		Nodes:      c.Nodes,
		Format:     format,
		UseLineage: c.UseLineage,
		StorePath:  c.Bdb,
		Backend:    c.Store,
		Mode:       mode,
		ArrowPath:  c.Arrow,
		FlatPath:   c.Flatdb,
		Width:      c.Width,
	}, nil
}

func logStats(log *logx.Logger, stats driver.Stats) {
	switch stats.DBType {
	case driver.NCBI:
		log.Verbosef("%d taxa selected, %d keys, %d flat file records", stats.Selected, stats.Records, stats.FlatRecords)
		if t := stats.Taxonomy; t != nil {
			log.Verbosef("%d duplicate nodes, %d orphan names, %d malformed lines", t.Duplicates, t.Orphans, t.Malformed)
		}
	default:
		log.Verbosef("%d headers, %d records, %d skipped", stats.Headers, stats.Records, stats.Skipped)
	}
	log.Verbosef("%d warnings, total %.3f sec", stats.Warnings, stats.ElapsedSeconds)
}
