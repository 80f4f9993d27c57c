package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/biovault/biovault/internal/catalog"
)

func newListCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the variant stores on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(*verbose)
		},
	}
}

func runList(verbose bool) error {
	cat := catalog.New(dataDir())
	cat.SetLogger(newLogger(verbose))

	stores, err := cat.List()
	if err != nil {
		return err
	}

	if len(stores) == 0 {
		fmt.Println("No variant stores. Use 'biovault ingest' to add one.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STORE ID\tNAME\tINGESTED\tVARIANTS\tMATCHABLE\tERRORS")
	for _, s := range stores {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			s.StoreID, s.DisplayName, s.IngestedAt.Local().Format(time.DateTime),
			s.TotalVariants, s.RsIDCount, s.ParseErrorCount)
	}
	return tw.Flush()
}
