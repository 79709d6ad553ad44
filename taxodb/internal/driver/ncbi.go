package driver

import (
	"fmt"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/flatfile"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/inputs"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/taxonomy"
)

// ncbiDriver parses the dump pair once and then serves both the key-value
// output and the flat file from the same table.
type ncbiDriver struct {
	plan Plan
	env  Env

	tax        *taxonomy.Taxonomy
	walker     *taxonomy.Walker
	buildStats taxonomy.BuildStats
}

func newNCBIDriver(plan Plan, env Env) (*ncbiDriver, error) {
	if plan.Names == "" {
		return nil, fmt.Errorf("%w: names.dmp input file is required", ErrMissingRequiredInput)
	}
	if plan.Nodes == "" {
		return nil, fmt.Errorf("%w: nodes.dmp input file is required", ErrMissingRequiredInput)
	}
	if err := inputs.Require(plan.Names, "names.dmp"); err != nil {
		return nil, err
	}
	if err := inputs.Require(plan.Nodes, "nodes.dmp"); err != nil {
		return nil, err
	}
	if plan.Format == "" {
		plan.Format = taxonomy.FormatFull
	}
	if _, err := taxonomy.ParseFormat(string(plan.Format)); err != nil {
		return nil, err
	}
	if plan.Width == 0 {
		plan.Width = flatfile.DefaultWidth
	}
	if plan.UseLineage {
		env.Log.Verbosef("use_lineage set ...")
	}
	return &ncbiDriver{plan: plan, env: env}, nil
}

func (d *ncbiDriver) Name() DBType {
	return NCBI
}

// load parses nodes.dmp then names.dmp, once.
func (d *ncbiDriver) load() error {
	if d.tax != nil {
		return nil
	}
	log, clock := d.env.Log, d.env.Clock
	b := taxonomy.NewBuilder(d.plan.Format, log)

	log.Verbosef("Parsing %s ...", d.plan.Nodes)
	clock.Start()
	p := d.env.progress(d.plan.Nodes, "nodes.dmp")
	b.SetProgress(p)
	err := b.LoadNodes(d.plan.Nodes)
	p.Finish()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	clock.Phase(log)

	log.Verbosef("Parsing %s ...", d.plan.Names)
	clock.Start()
	p = d.env.progress(d.plan.Names, "names.dmp")
	b.SetProgress(p)
	err = b.LoadNames(d.plan.Names)
	p.Finish()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	clock.Phase(log)

	d.tax = b.Finish()
	d.buildStats = b.Stats()
	d.walker = taxonomy.NewWalker(d.tax, d.plan.UseLineage)
	log.Verbosef("%d nodes loaded, %d taxa selected (%s)", d.tax.Len(), len(d.tax.Selected()), d.plan.Format)

	if d.plan.UseLineage {
		log.Verbosef("Building lineage and OC ...")
		clock.Start()
		if err := d.walker.Precompute(d.tax.Selected(), nil); err != nil {
			return err
		}
		clock.Phase(log)
	}
	return nil
}

// Run writes every name of every selected taxon as a key whose value is the
// taxon's organism classification.
func (d *ncbiDriver) Run(sink Sink) (Stats, error) {
	stats := Stats{DBType: NCBI}
	if err := d.load(); err != nil {
		return stats, err
	}
	stats.Selected = len(d.tax.Selected())

	log := d.env.Log
	log.Verbosef("Creating %s database ... ", NCBI)
	d.env.Clock.Start()
	for _, id := range d.tax.Selected() {
		l, err := d.walker.Resolve(id)
		if err != nil {
			return stats, err
		}
		node, _ := d.tax.Node(id)
		for _, name := range node.AllNames() {
			if err := sink.Put(name, l.OC); err != nil {
				return stats, err
			}
			stats.Records++
		}
	}
	d.env.Clock.Phase(log)
	bs := d.buildStats
	stats.Taxonomy = &bs
	return stats, nil
}

// WriteFlatFile writes one block per selected taxon to path.
func (d *ncbiDriver) WriteFlatFile(path string) (int, error) {
	if err := d.load(); err != nil {
		return 0, err
	}
	log := d.env.Log
	mode := d.plan.Mode
	if mode == 0 {
		mode = 0o666
	}
	out, err := inputs.Create(path, mode)
	if err != nil {
		return 0, fmt.Errorf("%w: can't open %s: %v", ErrIO, path, err)
	}
	fw, err := flatfile.NewWriter(out, d.plan.Width)
	if err != nil {
		_ = out.Close()
		return 0, err
	}

	log.Verbosef("Creating flat file %s ...", path)
	d.env.Clock.Start()
	for _, id := range d.tax.Selected() {
		l, err := d.walker.Resolve(id)
		if err != nil {
			_ = out.Close()
			return fw.Records(), err
		}
		rec := flatfile.Record{ID: id, LI: l.LI, OS: d.tax.DisplayName(id), OC: l.OC}
		if err := fw.WriteRecord(rec); err != nil {
			_ = out.Close()
			return fw.Records(), fmt.Errorf("%w: write %s: %v", ErrIO, path, err)
		}
	}
	if err := out.Close(); err != nil {
		return fw.Records(), fmt.Errorf("%w: close %s: %v", ErrIO, path, err)
	}
	log.Printf("[%s] Flat file %s created in %.3f sec", NCBI, path, d.env.Clock.Elapsed().Seconds())
	return fw.Records(), nil
}
