package command

import "strings"

// Parse splits a command line into a name and arguments on whitespace.
// No quoting, escaping, or expansion is applied. ok is false for blank
// input.
func Parse(input string) (name string, args []string, ok bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", nil, false
	}
	args = []string{}
	if len(fields) > 1 {
		args = fields[1:]
	}
	return fields[0], args, true
}
