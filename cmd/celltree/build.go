package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Load a mesh and build the selected locator variant, reporting timing and warnings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		fmt.Printf("variant=%s cells=%d points=%d build_id=%s elapsed=%s\n",
			variant, s.dataset.NumCells(), s.dataset.NumPoints(), s.genID, s.elapsed)
		return nil
	},
}
