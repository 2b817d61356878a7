package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/earley/internal/gramfile"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Convert a grammar to another format",
	Long: "Write the loaded grammar in another format. The binary format is a compact encoding that " +
		"loads from files ending in .egb.",
	Args: cobra.NoArgs,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringP("output", "o", "", "File to write to (default: stdout)")
	compileCmd.Flags().StringP("format", "f", "binary", "Output format: binary, egf, ebnf, or text")

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	b, err := loadBundle()
	if err != nil {
		return err
	}

	data, err := encodeBundle(b, strings.ToLower(format))
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write grammar: %w", err)
	}
	return nil
}

func encodeBundle(b gramfile.Bundle, format string) ([]byte, error) {
	switch format {
	case "binary":
		return b.Grammar.MarshalBinary()
	case "egf":
		return gramfile.Marshal(b)
	case "ebnf":
		return []byte(b.Grammar.EBNF()), nil
	case "text":
		return []byte(b.Grammar.String() + "\n"), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
