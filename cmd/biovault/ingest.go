package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biovault/biovault/internal/catalog"
	"github.com/biovault/biovault/internal/genotype"
	"github.com/biovault/biovault/internal/store"
)

func newIngestCmd(verbose *bool) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Parse a genotyping export and build an indexed variant store",
		Long:  "Parse a 23andMe-style export (.txt or .zip), bulk-load it into a new indexed store, and register it in the catalog.",
		Example: `  biovault ingest genome_export.txt
  biovault ingest --name "Dad 2024" genome_Dad_v5_Full.zip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(args[0], name, *verbose)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name for the store (default: file name)")
	return cmd
}

func runIngest(path, name string, verbose bool) error {
	logger := newLogger(verbose)

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	// Cheap format sniff before committing to a full parse of a file
	// with hundreds of thousands of rows. Advisory only.
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		if ok, reason := sniffExport(path); !ok {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", reason)
		}
	}

	fmt.Fprintf(os.Stderr, "parsing %s...\n", filepath.Base(path))
	parsed, err := genotype.Parse(path)
	if err != nil {
		return err
	}

	stats := genotype.FileStats(parsed)
	fmt.Fprintf(os.Stderr, "parsed %d variants (%d matchable, %d chromosomes, %d parse errors)\n",
		stats.TotalVariants, stats.RsIDCount, stats.ChromosomeCount, stats.ErrorCount)
	if verbose {
		for _, e := range parsed.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
	}

	cat := catalog.New(dataDir())
	cat.SetLogger(logger)

	meta, err := store.Build(cat.StoresDir(), parsed, name, func(stage string) {
		fmt.Fprintf(os.Stderr, "%s...\n", stage)
	})
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}

	if err := cat.Register(meta); err != nil {
		return fmt.Errorf("register store: %w", err)
	}

	fmt.Printf("Created store %s (%q): %d variants, %d matchable identifiers\n",
		meta.StoreID, meta.DisplayName, meta.TotalVariants, meta.RsIDCount)
	return nil
}

// sniffExport reads the head of a file and checks whether it resembles a
// genotyping export.
func sniffExport(path string) (bool, string) {
	f, err := os.Open(path)
	if err != nil {
		return true, "" // let the parser produce the real error
	}
	defer f.Close()

	head := make([]byte, 64*1024)
	n, err := f.Read(head)
	if n == 0 || (err != nil && err != io.EOF) {
		return true, ""
	}
	return genotype.LooksLikeExport(string(head[:n]))
}
