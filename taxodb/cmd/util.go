package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/logx"
)

func fatalf(format string, args ...any) {
	logx.New(logx.Options{ErrOut: os.Stderr, Color: !color.NoColor}).Errorf(format, args...)
	os.Exit(1)
}

// parseMode reads an octal permission such as "0666" or "644".
func parseMode(s string) (fs.FileMode, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0o")
	if s == "" {
		return 0, fmt.Errorf("empty mode")
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("mode %q is not octal: %w", s, err)
	}
	if v > 0o777 {
		return 0, fmt.Errorf("mode %q out of range", s)
	}
	return fs.FileMode(v), nil
}

func useColor(noColor bool) bool {
	return !noColor && !color.NoColor
}
