package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dekarrin/earley"
	"github.com/dekarrin/earley/forest"
	"github.com/dekarrin/earley/grammar"
	"github.com/dekarrin/earley/internal/gramfile"
	"github.com/dekarrin/earley/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
)

var rootCmd = &cobra.Command{
	Use:     "earley",
	Short:   "Earley chart parser",
	Long:    "Earley parses sentences against a context-free grammar and extracts every parse tree of each accepted sentence.",
	Version: version.Current,

	SilenceUsage: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(viper.GetInt("verbose"), nil)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("grammar", "g", "", "Grammar file to use (default: built-in sample grammar)")
	rootCmd.PersistentFlags().String("start", "", "Start symbol for EBNF grammar files")
	rootCmd.PersistentFlags().Int("max-trees", 0, "Stop after this many parse trees (0 for no limit)")
	rootCmd.PersistentFlags().Int("max-steps", 0, "Stop tree extraction after this many steps (0 for no limit)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity; may be repeated")

	_ = viper.BindPFlag("grammar", rootCmd.PersistentFlags().Lookup("grammar"))
	_ = viper.BindPFlag("start", rootCmd.PersistentFlags().Lookup("start"))
	_ = viper.BindPFlag("max_trees", rootCmd.PersistentFlags().Lookup("max-trees"))
	_ = viper.BindPFlag("max_steps", rootCmd.PersistentFlags().Lookup("max-steps"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	viper.SetEnvPrefix("EARLEY")
	viper.AutomaticEnv()
}

// loadBundle reads the grammar named by the grammar setting. The format is
// chosen by file extension: ".ebnf" is EBNF, ".egb" is a compiled binary
// grammar, ".txt" and ".grammar" are text notation and anything else is EGF.
func loadBundle() (gramfile.Bundle, error) {
	path := viper.GetString("grammar")
	if path == "" {
		return gramfile.Bundle{Grammar: grammar.Simple()}, nil
	}

	var b gramfile.Bundle
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ebnf":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return b, err
		}
		defer f.Close()
		b.Grammar, err = grammar.ParseEBNF(path, f, viper.GetString("start"))
	case ".egb":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return b, err
		}
		err = b.Grammar.UnmarshalBinary(data)
	case ".txt", ".grammar":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return b, err
		}
		b.Grammar, err = grammar.Parse(string(data))
	default:
		b, err = gramfile.LoadBundle(path)
	}
	if err != nil {
		return b, fmt.Errorf("load grammar %q: %w", path, err)
	}
	return b, nil
}

func limitOptions() []forest.Option {
	var opts []forest.Option
	if n := viper.GetInt("max_trees"); n > 0 {
		opts = append(opts, forest.MaxTrees(n))
	}
	if n := viper.GetInt("max_steps"); n > 0 {
		opts = append(opts, forest.MaxSteps(n))
	}
	opts = append(opts, forest.WithLogger(commonlog.GetLogger("earley.cli")))
	return opts
}

// sentences gives the sentence named by args, or every non-blank line of stdin
// if there are no args.
func sentences(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}

	var lines []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read sentences: %w", err)
	}
	return lines, nil
}

func parseAll(cmd *cobra.Command, args []string) (gramfile.Bundle, []earley.Result, error) {
	b, err := loadBundle()
	if err != nil {
		return b, nil, err
	}
	sents, err := sentences(cmd, args)
	if err != nil {
		return b, nil, err
	}
	if len(sents) < 1 {
		return b, nil, fmt.Errorf("no sentences to parse")
	}

	opts := limitOptions()
	results := make([]earley.Result, len(sents))
	for i := range sents {
		results[i] = earley.Parse(b.Grammar, sents[i], opts...)
	}
	return b, results, nil
}
