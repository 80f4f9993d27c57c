package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/biovault/biovault/internal/analyze"
	"github.com/biovault/biovault/internal/catalog"
	"github.com/biovault/biovault/internal/clinvar"
	"github.com/biovault/biovault/internal/output"
	"github.com/biovault/biovault/internal/store"
)

func newAnalyzeCmd(verbose *bool) *cobra.Command {
	var (
		clinvarPath  string
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "analyze <store-id>",
		Short: "Match a store against the reference clinical-variant database",
		Long:  "Cross-reference a variant store's identifiers against the reference clinical-variant database and report annotated findings grouped by gene.",
		Example: `  biovault analyze my_genome_1717171717
  biovault analyze -f json -o result.json my_genome_1717171717`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clinvarPath == "" {
				clinvarPath = viper.GetString("clinvar.db")
			}
			if clinvarPath == "" {
				return fmt.Errorf("no reference database configured (set clinvar.db or use --clinvar)")
			}
			return runAnalyze(args[0], clinvarPath, outputFormat, outputFile, *verbose)
		},
	}

	cmd.Flags().StringVar(&clinvarPath, "clinvar", "", "Path to the reference clinical-variant database")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tab", "Output format: tab, json")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func runAnalyze(storeID, clinvarPath, format, outputFile string, verbose bool) error {
	logger := newLogger(verbose)

	cat := catalog.New(dataDir())
	cat.SetLogger(logger)

	s, err := store.Open(cat.StorePath(storeID))
	if err != nil {
		return fmt.Errorf("open store %s: %w", storeID, err)
	}
	defer s.Close()

	ref, err := clinvar.Open(clinvarPath)
	if err != nil {
		return err
	}
	defer ref.Close()

	result, err := analyze.Run(s, ref, logger)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}

	switch format {
	case "tab":
		return output.NewTabWriter(out).WriteResult(result)
	case "json":
		return output.NewJSONWriter(out).WriteResult(result)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
