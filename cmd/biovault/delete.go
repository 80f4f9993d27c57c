package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biovault/biovault/internal/catalog"
)

func newDeleteCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <store-id>",
		Short: "Delete a variant store and all its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(args[0], *verbose)
		},
	}
}

func runDelete(storeID string, verbose bool) error {
	cat := catalog.New(dataDir())
	cat.SetLogger(newLogger(verbose))

	if err := cat.Delete(storeID); err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	fmt.Printf("Deleted store %s\n", storeID)
	return nil
}
