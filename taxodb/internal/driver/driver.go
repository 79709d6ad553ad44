// Package driver turns one taxonomy source into (key, value) pairs and feeds
// them to the configured outputs.
package driver

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/logx"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/taxonomy"
)

// DBType names a source format.
type DBType string

const (
	Silva      DBType = "silva"
	Greengenes DBType = "greengenes"
	NCBI       DBType = "ncbi"
)

// ValueSeparator joins organism and taxonomy in FASTA-derived values.
const ValueSeparator = "_@#$_"

func ParseDBType(s string) (DBType, error) {
	switch t := DBType(strings.ToLower(strings.TrimSpace(s))); t {
	case Silva, Greengenes, NCBI:
		return t, nil
	case "":
		return "", fmt.Errorf("%w: a taxodb name is required", ErrMissingRequiredInput)
	}
	return "", fmt.Errorf("%w %s (%s, %s, %s)", ErrUnsupportedDBType, s, Greengenes, NCBI, Silva)
}

// Progress is a per-phase progress indicator.
type Progress interface {
	Increment()
	Finish()
}

type nopProgress struct{}

func (nopProgress) Increment() {}
func (nopProgress) Finish()    {}

// Env carries the collaborators every driver is built with.
type Env struct {
	Log   *logx.Logger
	Clock *logx.Stopwatch
	// Progress returns an indicator for scanning path; nil disables progress.
	Progress func(path, label string) Progress
}

func (e Env) withDefaults() Env {
	if e.Log == nil {
		e.Log = logx.Discard()
	}
	if e.Clock == nil {
		e.Clock = logx.NewStopwatch()
	}
	return e
}

func (e Env) progress(path, label string) Progress {
	if e.Progress == nil {
		return nopProgress{}
	}
	if p := e.Progress(path, label); p != nil {
		return p
	}
	return nopProgress{}
}

// Stats summarizes one run.
type Stats struct {
	DBType         DBType               `json:"db_type"`
	Headers        int64                `json:"headers,omitempty"`
	Records        int64                `json:"records"`
	Skipped        int64                `json:"skipped,omitempty"`
	Selected       int                  `json:"selected_taxa,omitempty"`
	FlatRecords    int                  `json:"flat_records,omitempty"`
	Taxonomy       *taxonomy.BuildStats `json:"taxonomy,omitempty"`
	Warnings       int64                `json:"warnings"`
	Elapsed        time.Duration        `json:"-"`
	ElapsedSeconds float64              `json:"elapsed_sec"`
}

// SourceDriver is one source format.
type SourceDriver interface {
	Name() DBType
	Run(sink Sink) (Stats, error)
}

// Plan is everything a build needs.
type Plan struct {
	DBType DBType

	Fasta     string
	HeaderSep string

	Names      string
	Nodes      string
	Format     taxonomy.Format
	UseLineage bool

	StorePath string
	Backend   string
	Mode      fs.FileMode

	ArrowPath string

	FlatPath string
	Width    int
}

// New selects the driver for plan.DBType and checks its inputs.
func New(plan Plan, env Env) (SourceDriver, error) {
	env = env.withDefaults()
	switch plan.DBType {
	case Silva, Greengenes:
		if plan.Names != "" || plan.Nodes != "" || plan.FlatPath != "" {
			return nil, fmt.Errorf("%w: FASTA input can't be combined with names/nodes/flat file", ErrIncompatibleInputs)
		}
		return newFastaDriver(plan, env)
	case NCBI:
		if plan.Fasta != "" {
			return nil, fmt.Errorf("%w: FASTA input is not used with %s", ErrIncompatibleInputs, NCBI)
		}
		return newNCBIDriver(plan, env)
	}
	return nil, fmt.Errorf("%w %q", ErrUnsupportedDBType, plan.DBType)
}
