package proc

import "strings"

// CommandLine is a parsed executable path plus its ordered arguments. It
// renders either as independent raw strings for array-style exec calls or as
// a single quote-if-needed string for single-string creation calls.
type CommandLine struct {
	executable string
	args       []string
}

// Parse tokenizes a command-line string. Tokens split on unquoted whitespace;
// a double-quoted segment may contain whitespace and contributes a single
// token. Inside a quoted segment a backslash escapes a quote or another
// backslash; any other backslash is literal. The first token is the
// executable.
func Parse(line string) CommandLine {
	tokens := tokenize(line)
	if len(tokens) == 0 {
		return CommandLine{}
	}
	return CommandLine{executable: tokens[0], args: tokens[1:]}
}

// NewCommandLine constructs a command line directly, bypassing parsing.
func NewCommandLine(executable string, args ...string) CommandLine {
	return CommandLine{executable: executable, args: append([]string(nil), args...)}
}

// Executable returns the executable path in raw form.
func (c CommandLine) Executable() string {
	return c.executable
}

// Args returns a copy of the arguments in raw form.
func (c CommandLine) Args() []string {
	return append([]string(nil), c.args...)
}

// Argv returns the executable followed by the arguments, the argument-vector
// shape consumed by array-style exec calls.
func (c CommandLine) Argv() []string {
	argv := make([]string, 0, len(c.args)+1)
	argv = append(argv, c.executable)
	return append(argv, c.args...)
}

// String renders the command line in quote-if-needed form: a token containing
// whitespace or quote characters, or an empty token, is wrapped in double
// quotes with internal quotes and backslashes escaped. Parsing the result
// reproduces the same executable and argument sequence.
func (c CommandLine) String() string {
	var sb strings.Builder
	sb.WriteString(quoteIfNeeded(c.executable))
	for _, arg := range c.args {
		sb.WriteByte(' ')
		sb.WriteString(quoteIfNeeded(arg))
	}
	return sb.String()
}

func tokenize(line string) []string {
	var tokens []string
	var current strings.Builder
	inToken := false
	inQuotes := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case inQuotes:
			switch {
			case ch == '\\' && i+1 < len(line) && (line[i+1] == '"' || line[i+1] == '\\'):
				current.WriteByte(line[i+1])
				i++
			case ch == '"':
				inQuotes = false
			default:
				current.WriteByte(ch)
			}
		case ch == '"':
			inQuotes = true
			inToken = true
		case ch == ' ' || ch == '\t':
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteByte(ch)
			inToken = true
		}
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// quoteIfNeeded wraps a token in quotes when it contains whitespace or a
// quote, or is empty. Quotes and backslashes inside the wrapped token are
// backslash-escaped; a trailing backslash would otherwise swallow the closing
// quote on re-parse.
func quoteIfNeeded(token string) string {
	if token != "" && !strings.ContainsAny(token, " \t\"") {
		return token
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(token); i++ {
		if token[i] == '"' || token[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(token[i])
	}
	sb.WriteByte('"')
	return sb.String()
}
