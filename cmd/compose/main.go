// Command compose replays YAML scenarios through the reconciliation engine.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/compose/cmd/compose/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
