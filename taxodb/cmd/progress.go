package cmd

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/driver"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/inputs"
	"github.com/Doomsbay/TaxoDB/taxodb/internal/logx"
)

// progress wraps schollz/progressbar; a nil bar makes every call a no-op.
type progress struct {
	bar *progressbar.ProgressBar
}

func newProgress(total int, label string) *progress {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(label),
		progressbar.OptionThrottle(250 * time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
	}

	var bar *progressbar.ProgressBar
	if total > 0 {
		opts = append(opts,
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(true),
		)
		bar = progressbar.NewOptions(total, opts...)
	} else {
		opts = append(opts, progressbar.OptionSpinnerType(14))
		bar = progressbar.NewOptions(-1, opts...)
	}
	return &progress{bar: bar}
}

func (p *progress) Increment() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

func (p *progress) Finish() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

// progressFactory returns the per-file bar constructor handed to the
// drivers, or nil when bars are off. A failed line count shows a spinner.
func progressFactory(enabled bool, log *logx.Logger) func(path, label string) driver.Progress {
	if !enabled {
		return nil
	}
	return func(path, label string) driver.Progress {
		total, err := inputs.CountLines(path)
		if err != nil {
			log.Verbosef("Can't count lines of %s: %v", path, err)
			total = -1
		}
		return newProgress(total, label)
	}
}
