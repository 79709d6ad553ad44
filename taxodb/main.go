package main

import (
	"os"

	"github.com/Doomsbay/TaxoDB/taxodb/cmd"
)

func main() {
	cmd.Execute(os.Args[1:])
}
