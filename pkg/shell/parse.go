package shell

import "strings"

// splitLines breaks a command buffer into individual lines on newline
// and semicolon. A line that trims to nothing is dropped rather than
// treated as a pipe with one empty stage: blank input is ordinary
// shell UX, not a syntax error. See DESIGN.md.
func splitLines(buf string) []string {
	var lines []string
	start := 0
	flush := func(end int) {
		seg := strings.TrimSpace(buf[start:end])
		if seg != "" {
			lines = append(lines, seg)
		}
		start = end + 1
	}
	for i, r := range buf {
		if r == '\n' || r == ';' {
			flush(i)
		}
	}
	flush(len(buf))
	return lines
}

// stage is one command in a pipeline: tokens[0] is the name, the rest
// are arguments.
type stage struct {
	tokens []string
}

// parseJob splits a line into pipeline stages on "|", then each stage
// on whitespace. ok is false if any stage has no tokens once trimmed
// (an empty command between pipes).
func parseJob(line string) (stages []stage, ok bool) {
	parts := strings.Split(line, "|")
	stages = make([]stage, len(parts))
	for i, p := range parts {
		tokens := strings.Fields(p)
		if len(tokens) == 0 {
			return nil, false
		}
		stages[i] = stage{tokens: tokens}
	}
	return stages, true
}

// substitute resolves $name arguments against vars, leaving any other
// token unchanged.
func substitute(tokens []string, vars map[string]string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		if strings.HasPrefix(t, "$") {
			out[i] = vars[t[1:]]
		} else {
			out[i] = t
		}
	}
	return out
}
