/*
Earley parses sentences against a context-free grammar and prints every parse
tree it finds.

Usage:

	earley [flags] <command> [args]

Commands:

	parse    Parse sentences and print their parse trees
	charts   Print the Earley charts built for a sentence
	check    Run the sample sentences bundled with a grammar
	compile  Convert a grammar to another format

Every flag of the root command may also be given as an environment variable
prefixed with EARLEY_, such as EARLEY_GRAMMAR or EARLEY_MAX_TREES.
*/
package main

import (
	"os"

	// Import the default commonlog backend.
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
