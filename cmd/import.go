package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ReCoderDojoEniwa/HomePage/internal/braw"
	"github.com/ReCoderDojoEniwa/HomePage/internal/errors"
	"github.com/ReCoderDojoEniwa/HomePage/internal/logfields"
	"github.com/ReCoderDojoEniwa/HomePage/internal/mdimport"
)

var (
	importName  string
	importForce bool
)

var importCmd = &cobra.Command{
	Use:   "import <post.md>",
	Short: "Converts a Markdown post into a .braw source folder",
	Long: `The import command converts a Markdown file (with optional front matter
carrying date and author) into <sourceDir>/<name>/<name>.braw. Images keep
their relative paths, so copy them next to the new source afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		data, err := os.ReadFile(src)
		if err != nil {
			return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "read markdown").
				WithContext("path", src)
		}
		out, err := mdimport.Convert(data)
		if err != nil {
			return errors.Wrap(err, errors.CategoryParse, errors.SeverityFatal, "convert markdown").
				WithContext("path", src)
		}

		name := importName
		if name == "" {
			base := filepath.Base(src)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		target := filepath.Join(appConfig.SourceDir, name, name+braw.Extension)
		if _, err := os.Stat(target); err == nil && !importForce {
			return errors.New(errors.CategoryFileSystem, errors.SeverityFatal,
				fmt.Sprintf("%s already exists, use --force to overwrite", target))
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "create source folder")
		}
		if err := os.WriteFile(target, []byte(out), 0o644); err != nil {
			return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "write source").
				WithContext("path", target)
		}
		logger.Info("Imported markdown", logfields.Document(src), logfields.Path(target))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importName, "name", "", "post name, used for the folder and the page title (default: markdown file name)")
	importCmd.Flags().BoolVar(&importForce, "force", false, "overwrite an existing source")
	importCmd.Flags().String("source", "", "source directory (overrides sourceDir)")
	rootCmd.AddCommand(importCmd)
}
