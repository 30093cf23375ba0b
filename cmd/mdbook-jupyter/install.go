package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/nbdoc/mdbook-jupyter/internal/fileutil"
)

// ErrNoBookToml indicates install was run outside an mdBook project.
var ErrNoBookToml = errors.New("book.toml not found")

// preprocessorBlock is appended to book.toml on install. Options are
// listed commented-out with their defaults.
const preprocessorBlock = `
[preprocessor.jupyter]
# embed_images = false
# assets_dir = ""
`

var installCmd = &cobra.Command{
	Use:   "install [dir]",
	Short: "Add the preprocessor to book.toml",
	Long: `Install adds a [preprocessor.jupyter] table to the book.toml in the
given directory (default: the current directory), so mdBook runs this
preprocessor on every build.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		return install(cmd, dir)
	},
}

func install(cmd *cobra.Command, dir string) error {
	configPath := filepath.Join(dir, "book.toml")
	if !fileutil.FileExists(configPath) {
		return fmt.Errorf("%w in %s: run install from the root of an mdbook project", ErrNoBookToml, dir)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", configPath, err)
	}

	installed, err := hasPreprocessorTable(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", configPath, err)
	}
	if installed {
		fmt.Fprintf(cmd.OutOrStdout(), "[preprocessor.jupyter] already present in %s\n", configPath)
		return nil
	}

	// Append rather than rewrite: re-serializing the whole file would
	// drop the user's comments and formatting.
	updated := append(data, []byte(preprocessorBlock)...)
	if err := os.WriteFile(configPath, updated, 0o644); err != nil {
		return fmt.Errorf("updating %s: %w", configPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added [preprocessor.jupyter] to %s\n", configPath)
	return nil
}

// hasPreprocessorTable parses book.toml and reports whether the
// preprocessor.jupyter table already exists.
func hasPreprocessorTable(data []byte) (bool, error) {
	var config struct {
		Preprocessor map[string]toml.Primitive `toml:"preprocessor"`
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return false, err
	}
	_, ok := config.Preprocessor["jupyter"]
	return ok, nil
}
