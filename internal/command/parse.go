package command

import (
	"strings"

	"github.com/dekarrin/earley/internal/egerrors"
)

var (
	// VerbAliases maps shorthand verbs to their canonical forms. They are all
	// uppercase and do not include the Prefix.
	VerbAliases map[string]string = map[string]string{
		"P":       Parse,
		"GRAMMAR": Load,
		"G":       Load,
		"L":       Load,
		"R":       Rules,
		"C":       Charts,
		"T":       Trees,
		"S":       Samples,
		"?":       Help,
		"H":       Help,
		"Q":       Quit,
		"EXIT":    Quit,
		"BYE":     Quit,
	}
)

// TreeStyles is every argument accepted by the TREES command.
var TreeStyles = []string{"OUTLINE", "BRACKET", "PRETTY"}

// ParseCommand parses a command from the given text. If it cannot, a non-nil
// error is returned.
//
// If an empty string or a string composed only of whitespace is passed in, nil
// error is returned and a zero value for Command will be returned.
func ParseCommand(toParse string) (Command, error) {
	var parsedCmd Command

	trimmed := strings.TrimSpace(toParse)
	if trimmed == "" {
		return parsedCmd, nil
	}

	if !strings.HasPrefix(trimmed, Prefix) {
		parsedCmd.Verb = Parse
		parsedCmd.Arg = trimmed
		return parsedCmd, nil
	}

	// tokenize everything after the prefix, collapsing all whitespace
	casedTokens := strings.Fields(strings.TrimPrefix(trimmed, Prefix))
	if len(casedTokens) < 1 {
		return parsedCmd, egerrors.Interpreterf("Type a command name after %q", Prefix)
	}

	verb := strings.ToUpper(casedTokens[0])
	if canonical, ok := VerbAliases[verb]; ok {
		verb = canonical
	}
	parsedCmd.Verb = verb
	parsedCmd.Arg = strings.Join(casedTokens[1:], " ")

	switch parsedCmd.Verb {
	case Load:
		if parsedCmd.Arg == "" {
			return parsedCmd, egerrors.Interpreterf("I don't know which grammar file you want to load")
		}
	case Trees:
		if parsedCmd.Arg != "" {
			style := strings.ToUpper(parsedCmd.Arg)
			valid := false
			for _, s := range TreeStyles {
				if style == s {
					valid = true
					break
				}
			}
			if !valid {
				return parsedCmd, egerrors.Interpreterf("%q is not a tree style; use one of %s", parsedCmd.Arg, strings.ToLower(strings.Join(TreeStyles, ", ")))
			}
			parsedCmd.Arg = style
		}
	case Charts:
		if parsedCmd.Arg != "" {
			if strings.ToUpper(parsedCmd.Arg) != "TABLE" {
				return parsedCmd, egerrors.Interpreterf("%s%s takes no argument other than \"table\"", Prefix, casedTokens[0])
			}
			parsedCmd.Arg = "TABLE"
		}
	case Parse:
		if parsedCmd.Arg == "" {
			return parsedCmd, egerrors.Interpreterf("I don't know what sentence you want to parse")
		}
	case Help:
		// help takes an optional argument
	case Rules, Samples, Quit:
		if parsedCmd.Arg != "" {
			errMsg := "You can't %s%s *something*; type %s%s by itself"
			return parsedCmd, egerrors.Interpreterf(errMsg, Prefix, casedTokens[0], Prefix, casedTokens[0])
		}
	default:
		return parsedCmd, egerrors.Interpreterf("I don't know what you mean by %q", Prefix+casedTokens[0])
	}

	return parsedCmd, nil
}
