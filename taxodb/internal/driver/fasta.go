package driver

import (
	"fmt"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/fasta"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/inputs"
)

// fastaDriver streams Silva or Greengenes headers straight into the sink.
type fastaDriver struct {
	name    DBType
	path    string
	sep     string
	extract fasta.Extractor
	env     Env
}

func newFastaDriver(plan Plan, env Env) (*fastaDriver, error) {
	if plan.Fasta == "" {
		return nil, fmt.Errorf("%w: an FASTA input file is required", ErrMissingRequiredInput)
	}
	if err := inputs.Require(plan.Fasta, "FASTA"); err != nil {
		return nil, err
	}
	sep := plan.HeaderSep
	if sep == "" {
		sep = fasta.DefaultSourceSeparator
	}
	d := &fastaDriver{name: plan.DBType, path: plan.Fasta, sep: sep, env: env}
	if plan.DBType == Greengenes {
		d.extract = fasta.Greengenes
	} else {
		d.extract = fasta.Silva
	}
	return d, nil
}

func (d *fastaDriver) Name() DBType {
	return d.name
}

func (d *fastaDriver) Run(sink Sink) (Stats, error) {
	stats := Stats{DBType: d.name}
	log := d.env.Log

	log.Verbosef("Opening %s", d.path)
	in, err := inputs.Open(d.path)
	if err != nil {
		return stats, fmt.Errorf("%w: error while opening FASTA file %s: %v", ErrIO, d.path, err)
	}
	defer func() {
		_ = in.Close()
	}()

	log.Verbosef("Creating %s database ...", d.name)
	d.env.Clock.Start()
	progress := d.env.progress(d.path, string(d.name))
	err = fasta.ScanHeaders(in, progress, func(h fasta.Header) error {
		stats.Headers++
		rec, ok, err := d.extract(h.Text, d.sep)
		if err != nil {
			return fmt.Errorf("%s line %d: %w", d.path, h.Line, err)
		}
		if !ok {
			stats.Skipped++
			log.Verbosef("Skipping incomplete header at line %d", h.Line)
			return nil
		}
		if err := sink.Put(rec.Accession, rec.Organism+ValueSeparator+rec.Taxonomy); err != nil {
			return err
		}
		stats.Records++
		return nil
	})
	progress.Finish()
	if err != nil {
		return stats, err
	}
	d.env.Clock.Phase(log)
	log.Verbosef("%s: %d headers, %d records, %d skipped", d.name, stats.Headers, stats.Records, stats.Skipped)
	return stats, nil
}
