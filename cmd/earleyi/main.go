/*
Earleyi starts an interactive Earley parser session.

It loads a grammar and then reads sentences from the user, printing whether
each is accepted by the grammar along with every distinct parse tree of it.
Input is read from stdin until the ":quit" command is given or the input ends.

Usage:

	earleyi [flags]

The flags are:

	--version
		Give the current version of the earley tools and then exit.

	-g, --grammar FILE
		Use the provided EGF grammar or manifest file. If not given, a small
		built-in English grammar is used.

	-d, --direct
		Force reading directly from the console as opposed to using GNU readline
		based routines for reading command input even if launched in a tty with
		stdin and stdout.

	-v, --verbose
		Log parser activity to stderr. Give it more than once for more detail.

	--history FILE
		Keep readline history in the given file.

	--max-trees N
		Stop after N parse trees have been found for a sentence. 0 (the
		default) is no limit.

	--max-steps N
		Stop looking for parse trees of a sentence after N steps of work and
		report the result as truncated. 0 (the default) is no limit.

Once a session has started, each line that does not start with ":" is parsed as
a sentence. For an explanation of the commands, type ":help" once in a session.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/earley"
	"github.com/dekarrin/earley/internal/version"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitSessionError indicates an unsuccessful program execution due to a
	// problem during the session.
	ExitSessionError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

var (
	returnCode = ExitSuccess

	flagVersion  = pflag.Bool("version", false, "Give the current version of the earley tools and then exit.")
	flagGrammar  = pflag.StringP("grammar", "g", "", "The EGF grammar or manifest file to load.")
	flagDirect   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagVerbose  = pflag.CountP("verbose", "v", "Log parser activity to stderr. Repeat for more detail.")
	flagHistory  = pflag.String("history", "", "Keep readline history in the given file.")
	flagMaxTrees = pflag.Int("max-trees", 0, "The most parse trees to find for a sentence. 0 is no limit.")
	flagMaxSteps = pflag.Int("max-steps", 0, "The most steps to spend finding parse trees for a sentence. 0 is no limit.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: too many arguments\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	commonlog.Configure(*flagVerbose, nil)

	eng, initErr := earley.New(os.Stdin, os.Stdout, earley.Config{
		GrammarPath: *flagGrammar,
		ForceDirect: *flagDirect,
		HistoryFile: *flagHistory,
		MaxTrees:    *flagMaxTrees,
		MaxSteps:    *flagMaxSteps,
	})
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	err := eng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitSessionError
		return
	}
}
