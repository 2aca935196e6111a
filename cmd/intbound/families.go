package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/njchilds90/intbound"
)

func newFamiliesCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "families",
		Short: "List the supported family keywords",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 {
				return &usageError{fmt.Errorf("families takes no arguments")}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEYWORD\tK\tINTEGRAND")
			for _, f := range intbound.Families() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Keyword, f.Constant, f.Description)
			}
			return tw.Flush()
		},
	}
}
