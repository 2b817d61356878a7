package command

import (
	"bufio"
	"fmt"

	"github.com/dekarrin/earley/internal/egerrors"
)

// Reader supplies raw lines of shell input.
type Reader interface {
	// ReadCommand blocks until a line is available. A non-nil error comes
	// with an empty string; io.EOF is returned only once every line before it
	// has been delivered.
	ReadCommand() (string, error)

	Close() error
}

// Get reads lines from cmdStream until one parses as a command and returns
// that command. Blank lines are skipped. Lines that fail to parse get a short
// message on ostream pointing at the help command, and reading continues.
func Get(cmdStream Reader, ostream *bufio.Writer) (Command, error) {
	for {
		input, err := cmdStream.ReadCommand()
		if err != nil {
			return Command{}, fmt.Errorf("could not get input: %w", err)
		}

		cmd, err := ParseCommand(input)
		if err == nil {
			if cmd.Verb == "" {
				continue
			}
			return cmd, nil
		}

		msg := fmt.Sprintf("%v\nTry %shelp for valid commands\n", egerrors.ConsoleMessage(err), Prefix)
		if _, err := ostream.WriteString(msg); err != nil {
			return cmd, fmt.Errorf("could not write output: %w", err)
		}
		if err := ostream.Flush(); err != nil {
			return cmd, fmt.Errorf("could not flush output: %w", err)
		}
	}
}
