package main

import (
	"fmt"
	"strings"

	"github.com/dekarrin/earley/chart"
	"github.com/spf13/cobra"
)

var chartsCmd = &cobra.Command{
	Use:   "charts [sentence...]",
	Short: "Print the Earley charts built for a sentence",
	RunE:  runCharts,
}

func init() {
	chartsCmd.Flags().BoolP("table", "t", false, "Print each chart as a table")

	rootCmd.AddCommand(chartsCmd)
}

func runCharts(cmd *cobra.Command, args []string) error {
	asTable, _ := cmd.Flags().GetBool("table")

	_, results, err := parseAll(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		fmt.Fprintf(out, "%q:\n", res.Sentence())
		if !asTable {
			fmt.Fprintln(out, chart.Render(res.Charts))
			continue
		}

		var sb strings.Builder
		for i, c := range res.Charts {
			sb.WriteString(fmt.Sprintf("Chart %d:\n", i))
			sb.WriteString(c.Table())
			sb.WriteString("\n\n")
		}
		fmt.Fprint(out, sb.String())
	}
	return nil
}
