package main

import (
	"fmt"

	"github.com/dekarrin/earley"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the sample sentences bundled with a grammar",
	Long: "Parse every sample sentence in the grammar's EGF file and report whether each was accepted or " +
		"rejected as the file expects. Exits non-zero if any sample misbehaves.",
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	b, err := loadBundle()
	if err != nil {
		return err
	}
	if len(b.Samples) < 1 {
		return fmt.Errorf("grammar has no sample sentences")
	}

	out := cmd.OutOrStdout()
	opts := limitOptions()
	failed := 0
	for _, s := range b.Samples {
		res := earley.Parse(b.Grammar, s.Sentence, opts...)

		status := "ok"
		if res.Accepted == s.Reject {
			status = "FAIL"
			failed++
		}
		verdict := "rejected"
		if res.Accepted {
			verdict = fmt.Sprintf("accepted, %d trees", len(res.Trees))
		}
		fmt.Fprintf(out, "[%-4s] %q %s\n", status, res.Sentence(), verdict)
	}
	fmt.Fprintf(out, "%d of %d samples behaved as expected\n", len(b.Samples)-failed, len(b.Samples))

	if failed > 0 {
		return fmt.Errorf("%d samples failed", failed)
	}
	return nil
}
