package driver

import (
	"errors"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/inputs"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/taxonomy"
)

// Fatal error kinds. Wrapped errors can be matched with errors.Is.
var (
	ErrMissingRequiredInput = errors.New("missing required input")
	ErrFileNotFound         = inputs.ErrNotFound
	ErrIO                   = errors.New("i/o error")
	ErrStoreOpen            = errors.New("can't open store")
	ErrStoreWrite           = errors.New("store write failed")
	ErrUnsupportedDBType    = errors.New("unsupported taxonomy database")
	ErrUnsupportedFormat    = taxonomy.ErrUnsupportedFormat
	ErrIncompatibleInputs   = errors.New("incompatible inputs")
)
