package ninja

import "strings"

var (
	// pathEscaper escapes paths used as outputs or inputs of a build statement.
	pathEscaper = strings.NewReplacer(
		"$", "$$",
		" ", "$ ",
		":", "$:")

	// commandEscaper escapes literal text embedded in a command line.
	commandEscaper = strings.NewReplacer("$", "$$")
)

// Newlines cannot be escaped: "$" followed by a newline continues the line.
// Statements carrying one are rejected by the Writer instead.

// EscapePath escapes a path for use in a build statement.
func EscapePath(path string) string {
	return pathEscaper.Replace(path)
}

// EscapeCommand escapes literal command text so no variable expansion happens.
func EscapeCommand(cmd string) string {
	return commandEscaper.Replace(cmd)
}

func escapePaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = EscapePath(p)
	}
	return out
}

// hasNewline reports whether any value contains a line break.
func hasNewline(values ...string) bool {
	for _, v := range values {
		if strings.ContainsAny(v, "\r\n") {
			return true
		}
	}
	return false
}

func varsHaveNewline(vars map[string]string) bool {
	for _, v := range vars {
		if hasNewline(v) {
			return true
		}
	}
	return false
}
