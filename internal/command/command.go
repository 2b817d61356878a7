// Package command defines shell command data types and handles parsing of
// commands from input sources.
package command

// Verbs of every command the shell understands.
const (
	Parse   = "PARSE"
	Load    = "LOAD"
	Rules   = "RULES"
	Charts  = "CHARTS"
	Trees   = "TREES"
	Samples = "SAMPLES"
	Help    = "HELP"
	Quit    = "QUIT"
)

// Prefix starts every shell command. Input without it is a sentence to parse.
const Prefix = ":"

// Command is a valid command received from a shell input source.
type Command struct {
	// Verb is the canonical name of the command being invoked, such as "LOAD"
	// or "QUIT". Some verbs have shorthand forms which are typed differently,
	// for instance ":q" could be typed instead of ":quit", and for all those
	// cases they result in a Command with the canonical verb.
	//
	// Input that is not a shell command gives a Command with verb "PARSE".
	Verb string

	// Arg is everything typed after the verb with outer whitespace removed,
	// in its original case. For PARSE it is the entire sentence.
	Arg string
}
