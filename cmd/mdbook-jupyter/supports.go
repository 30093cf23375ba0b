package main

import (
	"os"

	"github.com/spf13/cobra"

	jupyter "github.com/nbdoc/mdbook-jupyter"
)

// supportsCmd answers the host's capability query. mdBook calls
// "mdbook-jupyter supports <renderer>" before a build and expects exit
// code 0 for yes, 1 for no. No book payload is read in this mode.
var supportsCmd = &cobra.Command{
	Use:   "supports <renderer>",
	Short: "Check whether a renderer is supported",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !jupyter.NewPreprocessor().SupportsRenderer(args[0]) {
			os.Exit(1)
		}
	},
}
