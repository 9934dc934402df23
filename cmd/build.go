package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ReCoderDojoEniwa/HomePage/internal/errors"
	"github.com/ReCoderDojoEniwa/HomePage/internal/model"
	"github.com/ReCoderDojoEniwa/HomePage/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Renders every blog source and the index page",
	Long: `The build command looks at every folder in the source directory, parses
the single .braw file it contains, writes <title>.html into the output
directory and finally writes the index page with one entry per post.

A source with broken !meta directives fails only that post unless
--fail-fast is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuildProcess(cmd.Context())
	},
}

func runBuildProcess(ctx context.Context) error {
	report, err := site.NewBuilder(appConfig, logger).Build(ctx)
	if err != nil {
		return err
	}
	logger.Info("Build summary: " + report.Summary())
	return failedDocumentsError(report)
}

// failedDocumentsError turns failed documents into a non-fatal error so the exit
// code reflects them.
func failedDocumentsError(report *model.BuildReport) error {
	failed := report.Failed()
	if len(failed) == 0 {
		return nil
	}
	first := failed[0]
	return errors.New(errors.ErrorCategory(first.Category), errors.SeverityError,
		fmt.Sprintf("%d of %d document(s) failed, first: %s", len(failed), len(report.Documents), first.Reason)).
		WithContext("source", first.SourcePath)
}

func init() {
	buildCmd.Flags().String("source", "", "source directory (overrides sourceDir)")
	buildCmd.Flags().String("output", "", "output directory (overrides outputDir)")
	buildCmd.Flags().Bool("fail-fast", false, "abort the build at the first failing document")
	buildCmd.Flags().String("report", "", "write a YAML build report to this path")
	rootCmd.AddCommand(buildCmd)
}
