package cmd

import (
	"fmt"
	"os"
)

func Execute(args []string) {
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "build":
		runBuild(args[1:])
	case "lookup":
		runLookup(args[1:])
	case "dump":
		runDump(args[1:])
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "TaxoDB - taxonomy key-value database builder")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  taxodb <command> [options]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  build    Build a store (silva, greengenes, ncbi) and/or an NCBI flat file")
	fmt.Fprintln(os.Stderr, "  lookup   Print the stored values for one or more keys")
	fmt.Fprintln(os.Stderr, "  dump     Print every key and value of a store")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run 'taxodb <command> -h' for command-specific options.")
}
