// Command mdbook-jupyter is an mdBook preprocessor that converts
// .ipynb-backed chapters into Markdown.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	jupyter "github.com/nbdoc/mdbook-jupyter"
	"github.com/nbdoc/mdbook-jupyter/internal/logging"
	"github.com/nbdoc/mdbook-jupyter/mdbook"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:     "mdbook-jupyter",
	Short:   "mdBook preprocessor for Jupyter notebooks",
	Version: Version,
	Long: `mdbook-jupyter converts Jupyter notebook chapters to Markdown inside
an mdBook build. mdBook invokes it with the book payload on stdin and
reads the transformed book from stdout.

Add it to book.toml with "mdbook-jupyter install".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logging.SetLevel(level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreprocess(os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warning",
		"diagnostic verbosity: debug, info, warning, error, none")
	rootCmd.AddCommand(supportsCmd, installCmd)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runPreprocess performs one full preprocessor exchange: handshake in,
// transformed book out. Nothing is written to out on a fatal error.
func runPreprocess(in io.Reader, out io.Writer) error {
	ctx, book, err := mdbook.ParseInput(in)
	if err != nil {
		return err
	}
	if err := ctx.CheckVersion(); err != nil {
		return err
	}

	pre := jupyter.NewPreprocessor()
	if err := pre.Run(ctx, book); err != nil {
		return err
	}

	if _, err := out.Write(book.Bytes()); err != nil {
		return fmt.Errorf("writing book: %w", err)
	}
	return nil
}
