// Command celltree is a demo CLI over the locator core: load a mesh,
// build one of the three index variants, and issue the public queries
// from a terminal instead of from an embedding Go program.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
