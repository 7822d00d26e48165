// Package editor implements a modal line editor: a buffer of lines, a
// normal/insert mode flag, and a cursor with a virtual column
// remembered across vertical motion. It is itself a Process with
// RawInput set, constructed by the `vi` builtin, so it takes
// foreground ownership the same way any other process does rather than
// running as a separate runtime.
package editor

import (
	"strings"

	"webshell/pkg/async"
	"webshell/pkg/output"
	"webshell/pkg/process"
	"webshell/pkg/terminal"
)

type mode int

const (
	normal mode = iota
	insert
)

// State is the read-only snapshot handed to Display.ShowUI so a host
// can render the buffer, cursor and mode without reaching into the
// editor's private fields.
type State struct {
	Buffer []string
	Line   int
	Col    int
	Insert bool
	Path   string
}

type editorHooks struct {
	process.BaseHooks
	services *async.Services
	display  terminal.Display

	path   string
	buffer []string
	mode   mode
	line   int
	col    int
	virtCol int
}

// New constructs a `vi`-style editor process, parented like any other
// builtin. Execute's sole argument, if present, is the path to load.
func New(services *async.Services, display terminal.Display, parent *process.Process) *process.Process {
	return process.New("vi", &editorHooks{services: services, display: display}, parent)
}

func (h *editorHooks) OnExecute(p *process.Process, args []string) (int, bool) {
	p.RawInput = true
	p.Echo = false
	if len(args) > 0 {
		h.path = args[0]
		h.services.Read(h.path, func(content string, err error) {
			if err != nil {
				h.buffer = []string{""}
			} else {
				h.buffer = splitBuffer(content)
			}
			h.render()
		})
	} else {
		h.buffer = []string{""}
		h.render()
	}
	return 0, false
}

func splitBuffer(content string) []string {
	if content == "" {
		return []string{""}
	}
	return strings.Split(content, "\n")
}

func (h *editorHooks) render() {
	h.display.ShowUI(State{
		Buffer: append([]string(nil), h.buffer...),
		Line:   h.line,
		Col:    h.col,
		Insert: h.mode == insert,
		Path:   h.path,
	})
}

func (h *editorHooks) OnInput(p *process.Process, k process.Key) {
	switch h.mode {
	case normal:
		h.normalKey(p, k)
	case insert:
		h.insertKey(p, k)
	}
	if p.State() == process.Running {
		h.render()
	}
}

func (h *editorHooks) currentLine() string { return h.buffer[h.line] }

func (h *editorHooks) setCol(col int) {
	h.col = col
	h.virtCol = col
}

func (h *editorHooks) clampCol() {
	max := len(h.currentLine())
	if h.mode == normal && max > 0 {
		max--
	}
	if h.col > max {
		h.col = max
	}
	if h.col < 0 {
		h.col = 0
	}
}

func (h *editorHooks) normalKey(p *process.Process, k process.Key) {
	switch {
	case k.Name == "Enter":
		// Enter has no motion meaning in normal mode.
	case k.Rune == 'h':
		if h.col > 0 {
			h.setCol(h.col - 1)
		}
	case k.Rune == 'l':
		if h.col < len(h.currentLine())-1 {
			h.setCol(h.col + 1)
		}
	case k.Rune == 'j':
		h.moveLine(1)
	case k.Rune == 'k':
		h.moveLine(-1)
	case k.Rune == 'w':
		h.wordForward()
	case k.Rune == 'b':
		h.wordBackward()
	case k.Rune == '^':
		h.setCol(0)
	case k.Rune == '$':
		l := len(h.currentLine())
		if l > 0 {
			l--
		}
		h.setCol(l)
	case k.Rune == 'i':
		h.mode = insert
	case k.Rune == 'a':
		if len(h.currentLine()) > 0 {
			h.col++
		}
		h.mode = insert
	case k.Rune == 'o':
		h.buffer = append(h.buffer[:h.line+1],
			append([]string{""}, h.buffer[h.line+1:]...)...)
		h.line++
		h.col = 0
		h.mode = insert
	case k.Rune == 'z':
		h.save(p)
	case k.Rune == 'q':
		p.Exit(0)
	}
}

func (h *editorHooks) moveLine(delta int) {
	line := h.line + delta
	if line < 0 || line >= len(h.buffer) {
		return
	}
	h.line = line
	h.col = h.virtCol
	h.clampCol()
}

func charClass(r rune) int {
	switch {
	case r == ' ' || r == '\t':
		return 0
	case isWordRune(r):
		return 1
	default:
		return 2
	}
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (h *editorHooks) wordForward() {
	line := []rune(h.currentLine())
	i := h.col
	if i >= len(line) {
		return
	}
	cls := charClass(line[i])
	for i < len(line) && charClass(line[i]) == cls {
		i++
	}
	for i < len(line) && charClass(line[i]) == 0 {
		i++
	}
	if i >= len(line) {
		i = len(line) - 1
		if i < 0 {
			i = 0
		}
	}
	h.setCol(i)
}

func (h *editorHooks) wordBackward() {
	line := []rune(h.currentLine())
	i := h.col
	if i <= 0 {
		return
	}
	i--
	for i > 0 && charClass(line[i]) == 0 {
		i--
	}
	if i > 0 {
		cls := charClass(line[i])
		for i > 0 && charClass(line[i-1]) == cls {
			i--
		}
	}
	h.setCol(i)
}

func (h *editorHooks) insertKey(p *process.Process, k process.Key) {
	switch {
	case k.Name == "Escape":
		h.mode = normal
		h.clampCol()
		h.virtCol = h.col
	case k.Name == "Enter":
		line := []rune(h.currentLine())
		before := string(line[:h.col])
		after := string(line[h.col:])
		h.buffer[h.line] = before
		rest := append([]string{after}, h.buffer[h.line+1:]...)
		h.buffer = append(h.buffer[:h.line+1], rest...)
		h.line++
		h.col = 0
	case k.Name == "Backspace":
		if h.col > 0 {
			line := []rune(h.currentLine())
			line = append(line[:h.col-1], line[h.col:]...)
			h.buffer[h.line] = string(line)
			h.col--
		} else if h.line > 0 {
			prevLen := len([]rune(h.buffer[h.line-1]))
			h.buffer[h.line-1] += h.buffer[h.line]
			h.buffer = append(h.buffer[:h.line], h.buffer[h.line+1:]...)
			h.line--
			h.col = prevLen
		}
	default:
		if k.Rune != 0 {
			line := []rune(h.currentLine())
			buf := make([]rune, 0, len(line)+1)
			buf = append(buf, line[:h.col]...)
			buf = append(buf, k.Rune)
			buf = append(buf, line[h.col:]...)
			h.buffer[h.line] = string(buf)
			h.col++
		}
	}
}

func (h *editorHooks) save(p *process.Process) {
	content := strings.Join(h.buffer, "\n")
	path := h.path
	h.services.Write(path, content, func(err error) {
		if err != nil {
			p.Stderr().Write(output.Text("vi: " + err.Error()))
			return
		}
		p.Exit(0)
	})
}
