package main

import (
	"fmt"
	"strings"

	"github.com/dekarrin/earley"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [sentence...]",
	Short: "Parse sentences and print their parse trees",
	Long: "Parse the sentence given by the arguments, or each line of stdin if no arguments are given, " +
		"and print every parse tree found for it.",
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringP("style", "s", "outline", "Tree style: outline, bracket, or pretty")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	style, _ := cmd.Flags().GetString("style")
	style = strings.ToLower(style)
	if style != "outline" && style != "bracket" && style != "pretty" {
		return fmt.Errorf("unknown tree style %q", style)
	}

	_, results, err := parseAll(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		fmt.Fprint(out, renderResult(res, style))
	}
	return nil
}

func renderResult(res earley.Result, style string) string {
	var sb strings.Builder
	if !res.Accepted {
		sb.WriteString(fmt.Sprintf("%q is not accepted by the grammar.\n", res.Sentence()))
		return sb.String()
	}

	noun := "trees"
	if len(res.Trees) == 1 {
		noun = "tree"
	}
	sb.WriteString(fmt.Sprintf("%q is accepted with %d parse %s", res.Sentence(), len(res.Trees), noun))
	if res.Truncated {
		sb.WriteString(" (search stopped early)")
	}
	sb.WriteString(".\n")

	for i, t := range res.Trees {
		sb.WriteString(fmt.Sprintf("Parse Tree %d:\n", i))
		switch style {
		case "bracket":
			sb.WriteString(t.Bracketed())
			sb.WriteRune('\n')
		case "pretty":
			sb.WriteString(t.Pretty())
			sb.WriteRune('\n')
		default:
			sb.WriteString(t.String())
		}
	}
	return sb.String()
}
