package main

import (
	"fmt"
	"html"
	"os"
	"regexp"

	"webshell/pkg/output"
)

// hostDisplay is the plain-text fallback Display used when no DOM is
// available. It strips the markup the shell writes for the browser and
// prints lines to the real stdout.
type hostDisplay struct {
	out *os.File
}

func newHostDisplay(out *os.File) *hostDisplay {
	return &hostDisplay{out: out}
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripMarkup(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

func (d *hostDisplay) WriteOutput(o output.Output) {
	s := o.Str()
	if _, ok := o.(output.Raw); ok {
		s = html.UnescapeString(stripMarkup(s))
	}
	fmt.Fprintln(d.out, s)
}

func (d *hostDisplay) SetPrompt(markup string) {
	fmt.Fprint(d.out, "\r"+stripMarkup(markup))
}

func (d *hostDisplay) SetInputLine(text string, cursor int) {
	fmt.Fprint(d.out, "\r"+text)
}

func (d *hostDisplay) Clear() {
	fmt.Fprint(d.out, "\x1bc")
}

func (d *hostDisplay) ShowUI(ui interface{}) {
	if st, ok := ui.(interface{ String() string }); ok {
		fmt.Fprintln(d.out, st.String())
		return
	}
	fmt.Fprintf(d.out, "%v\n", ui)
}

func (d *hostDisplay) HideUI() {}
