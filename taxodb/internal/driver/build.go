package driver

import (
	"fmt"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/export"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/logx"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/store"
)

// Build runs plan end to end: it opens the requested outputs, streams the
// source into them and, for NCBI, writes the flat file. Outputs are closed
// even when the run fails; whatever was written stays on disk.
func Build(plan Plan, env Env) (stats Stats, err error) {
	env = env.withDefaults()
	total := logx.NewStopwatch()
	total.Start()

	drv, err := New(plan, env)
	if err != nil {
		return Stats{}, err
	}
	if plan.StorePath == "" && plan.ArrowPath == "" && plan.FlatPath == "" {
		return Stats{}, fmt.Errorf("%w: no output requested (store, arrow or flat file)", ErrMissingRequiredInput)
	}

	var sinks multiSink
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i](); cerr != nil && err == nil {
				err = cerr
			}
		}
		stats.Warnings = env.Log.Warnings()
		stats.Elapsed = total.Elapsed()
		stats.ElapsedSeconds = stats.Elapsed.Seconds()
	}()

	if plan.StorePath != "" {
		backend, err := store.ParseBackend(plan.Backend)
		if err != nil {
			return Stats{}, err
		}
		env.Log.Verbosef("Opening %s store %s", backend, plan.StorePath)
		s, err := store.Open(store.Config{Path: plan.StorePath, Backend: backend, Mode: plan.Mode})
		if err != nil {
			return Stats{}, fmt.Errorf("%w %s: %v", ErrStoreOpen, plan.StorePath, err)
		}
		sinks = append(sinks, storeSink{s: s})
		closers = append(closers, func() error {
			if err := s.Close(); err != nil {
				return fmt.Errorf("%w: close %s: %v", ErrStoreWrite, plan.StorePath, err)
			}
			return nil
		})
	}
	if plan.ArrowPath != "" {
		ew, err := export.Create(plan.ArrowPath, 0)
		if err != nil {
			return Stats{}, fmt.Errorf("%w: %v", ErrIO, err)
		}
		sinks = append(sinks, ew)
		closers = append(closers, func() error {
			if err := ew.Close(); err != nil {
				return fmt.Errorf("%w: close %s: %v", ErrIO, plan.ArrowPath, err)
			}
			return nil
		})
	}

	if len(sinks) > 0 {
		stats, err = drv.Run(sinks)
		if err != nil {
			return stats, err
		}
	}

	if plan.FlatPath != "" {
		ncbi, ok := drv.(*ncbiDriver)
		if !ok {
			return stats, fmt.Errorf("%w: flat file output requires %s", ErrIncompatibleInputs, NCBI)
		}
		n, err := ncbi.WriteFlatFile(plan.FlatPath)
		if err != nil {
			return stats, err
		}
		stats.DBType = NCBI
		stats.FlatRecords = n
		stats.Selected = len(ncbi.tax.Selected())
		bs := ncbi.buildStats
		stats.Taxonomy = &bs
	}
	return stats, nil
}
