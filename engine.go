// Package earley contains an Earley parser for context-free grammars, along
// with a CLI-driven engine for loading grammars and parsing sentences
// interactively until the user quits.
//
// The parser itself lives in package chart and the recovery of parse trees in
// package forest; this package ties them together. Parse is the simplest way
// to use them both.
package earley

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/earley/chart"
	"github.com/dekarrin/earley/forest"
	"github.com/dekarrin/earley/grammar"
	"github.com/dekarrin/earley/internal/command"
	"github.com/dekarrin/earley/internal/egerrors"
	"github.com/dekarrin/earley/internal/gramfile"
	"github.com/dekarrin/earley/internal/input"
	"github.com/dekarrin/earley/internal/sentence"
	"github.com/dekarrin/rosed"
	"github.com/tliron/commonlog"
)

const consoleOutputWidth = 80

// Config holds the settings of an Engine.
type Config struct {
	// GrammarPath is the EGF file or manifest to load the grammar from. If
	// empty, the engine starts with grammar.Simple.
	GrammarPath string

	// ForceDirect disables readline even when attached to a terminal.
	ForceDirect bool

	// HistoryFile is where readline keeps input history. Empty means no
	// history is kept.
	HistoryFile string

	// MaxTrees is the most trees shown for a sentence. 0 means no limit.
	MaxTrees int

	// MaxSteps bounds the work done finding trees for a sentence. 0 means no
	// limit.
	MaxSteps int
}

// Engine contains the things needed to run an interactive parsing shell
// attached to an input stream and an output stream.
type Engine struct {
	g           grammar.Grammar
	samples     []gramfile.Sample
	source      string
	limits      []forest.Option
	last        *Result
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
	log         commonlog.Logger
}

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and a
// buffered writer on the output stream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used.
func New(inputStream io.Reader, outputStream io.Writer, cfg Config) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	eng := &Engine{
		g:           grammar.Simple(),
		source:      "built-in simple grammar",
		out:         bufio.NewWriter(outputStream),
		forceDirect: cfg.ForceDirect,
		log:         commonlog.GetLogger("earley.engine"),
	}

	if cfg.GrammarPath != "" {
		if err := eng.loadGrammar(cfg.GrammarPath); err != nil {
			return nil, err
		}
	}

	if cfg.MaxTrees > 0 {
		eng.limits = append(eng.limits, forest.MaxTrees(cfg.MaxTrees))
	}
	if cfg.MaxSteps > 0 {
		eng.limits = append(eng.limits, forest.MaxSteps(cfg.MaxSteps))
	}

	useReadline := !cfg.ForceDirect && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader(cfg.HistoryFile)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Grammar returns the grammar currently in use.
func (eng *Engine) Grammar() grammar.Grammar {
	return eng.g
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// RunUntilQuit begins reading commands from the streams and carrying them out
// until the QUIT command is received or input ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "Earley Parser Shell\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "===================\n"
	introMsg += "\n"
	introMsg += fmt.Sprintf("Using %s. Type a sentence to parse it, or %shelp.\n", eng.source, command.Prefix)

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	defer func() {
		eng.running = false
	}()

	for eng.running {
		cmd, err := command.Get(eng.in, eng.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if cmd.Verb == command.Quit {
			eng.running = false
			break
		}

		output, err := eng.Execute(cmd)
		if err != nil {
			consoleMessage := egerrors.ConsoleMessage(err)
			consoleMessage = rosed.Edit(consoleMessage).Wrap(consoleOutputWidth).String()
			if err := eng.write(consoleMessage + "\n"); err != nil {
				return err
			}
			continue
		}
		if err := eng.write(output); err != nil {
			return err
		}
	}

	return eng.write("Goodbye\n")
}

// Execute carries out a single command and returns the text to show for it.
// QUIT is not handled by Execute.
func (eng *Engine) Execute(cmd command.Command) (string, error) {
	switch cmd.Verb {
	case command.Parse:
		return eng.parse(cmd.Arg)
	case command.Load:
		if err := eng.loadGrammar(cmd.Arg); err != nil {
			return "", egerrors.WrapInterpreterf(err, "Could not load %q: %v", cmd.Arg, err)
		}
		return fmt.Sprintf("Loaded %s: %d rules, %d parts of speech, %d samples\n", eng.source, len(eng.g.Rules()), len(eng.g.PartsOfSpeech()), len(eng.samples)), nil
	case command.Rules:
		return eng.g.Table() + "\n", nil
	case command.Charts:
		if eng.last == nil {
			return "", egerrors.Interpreterf("Nothing has been parsed yet")
		}
		return eng.renderCharts(cmd.Arg == "TABLE"), nil
	case command.Trees:
		if eng.last == nil {
			return "", egerrors.Interpreterf("Nothing has been parsed yet")
		}
		return eng.renderTrees(cmd.Arg), nil
	case command.Samples:
		return eng.runSamples()
	case command.Help:
		return helpText(), nil
	default:
		return "", egerrors.Interpreterf("I don't know how to %s", strings.ToLower(cmd.Verb))
	}
}

func (eng *Engine) loadGrammar(path string) error {
	bundle, err := gramfile.LoadBundle(path)
	if err != nil {
		return err
	}
	eng.g = bundle.Grammar
	eng.samples = bundle.Samples
	eng.source = fmt.Sprintf("grammar %q", path)
	eng.last = nil
	eng.log.Infof("loaded grammar from %s", path)
	return nil
}

func (eng *Engine) parse(s string) (string, error) {
	tokens := sentence.Tokenize(s)
	if len(tokens) < 1 {
		return "", egerrors.Interpreterf("There are no words in %q to parse", s)
	}

	res := ParseTokens(eng.g, tokens, eng.limits...)
	eng.last = &res

	var sb strings.Builder
	if !res.Accepted {
		sb.WriteString(fmt.Sprintf("%q is not accepted by the grammar.\n", res.Sentence()))
		return sb.String(), nil
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
	sb.WriteString(eng.renderTrees(""))
	return sb.String(), nil
}

func (eng *Engine) renderCharts(asTable bool) string {
	if !asTable {
		return chart.Render(eng.last.Charts)
	}

	var sb strings.Builder
	for i, c := range eng.last.Charts {
		sb.WriteString(fmt.Sprintf("Chart %d:\n", i))
		sb.WriteString(c.Table())
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func (eng *Engine) renderTrees(style string) string {
	var sb strings.Builder
	for i, t := range eng.last.Trees {
		sb.WriteString(fmt.Sprintf("Parse Tree %d:\n", i))
		switch style {
		case "BRACKET":
			sb.WriteString(t.Bracketed())
			sb.WriteRune('\n')
		case "PRETTY":
			sb.WriteString(t.Pretty())
			sb.WriteRune('\n')
		default:
			sb.WriteString(t.String())
		}
	}
	return sb.String()
}

func (eng *Engine) runSamples() (string, error) {
	if len(eng.samples) < 1 {
		return "", egerrors.Interpreterf("The current grammar has no sample sentences")
	}

	var sb strings.Builder
	failed := 0
	for _, s := range eng.samples {
		res := Parse(eng.g, s.Sentence, eng.limits...)

		status := "ok"
		if res.Accepted == s.Reject {
			status = "FAIL"
			failed++
		}
		verdict := "rejected"
		if res.Accepted {
			verdict = fmt.Sprintf("accepted, %d trees", len(res.Trees))
		}
		sb.WriteString(fmt.Sprintf("[%-4s] %q %s\n", status, res.Sentence(), verdict))
	}
	sb.WriteString(fmt.Sprintf("%d of %d samples behaved as expected\n", len(eng.samples)-failed, len(eng.samples)))
	return sb.String(), nil
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

func helpText() string {
	p := command.Prefix
	data := [][]string{
		{"COMMAND", "DESCRIPTION"},
		{"<sentence>", "Parse the sentence and show its parse trees"},
		{p + "load FILE", "Load a grammar from an EGF file or manifest"},
		{p + "rules", "Show the rules of the current grammar"},
		{p + "charts [table]", "Show the charts of the last sentence"},
		{p + "trees [outline|bracket|pretty]", "Show the parse trees of the last sentence"},
		{p + "samples", "Parse every sample sentence of the grammar"},
		{p + "help", "Show this help"},
		{p + "quit", "Leave the shell"},
	}
	return rosed.Edit("").InsertTableOpts(0, data, consoleOutputWidth, rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}).String() + "\n"
}
