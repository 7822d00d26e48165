// Package terminal implements the controlling TTY: the process tree's
// root, the only thing that owns the keyboard and the display. It
// decodes raw key events into a line discipline (buffer editing, Enter
// delivering a line, history navigation, Ctrl-C/D/L/U) and renders
// payloads written to it by the foreground process.
package terminal

import (
	"fmt"

	"webshell/pkg/output"
	"webshell/pkg/process"
)

// Display is the DOM-backed (out of scope) or in-memory rendering
// surface a Terminal drives. cmd/webshd supplies a host-terminal
// implementation; tests supply an in-memory one.
type Display interface {
	WriteOutput(output.Output)
	SetPrompt(markup string)
	SetInputLine(text string, cursor int)
	Clear()
	ShowUI(ui interface{})
	HideUI()
}

// Terminal is the process tree's root: a Process with TTY set and no
// parent, whose stdout is the single mutable "foreground" cell.
type Terminal struct {
	Root    *process.Process
	display Display

	content []rune
	cursor  int
	newest  string

	ended bool
}

// New creates a Terminal wired to display, Executes its root process,
// and returns it ready to host a shell.
func New(display Display) *Terminal {
	t := &Terminal{display: display}
	t.Root = process.New("terminal", &rootHooks{t: t}, nil)
	t.Root.TTY = true
	t.Root.Execute()
	return t
}

// Foreground returns the process currently receiving keyboard input, or
// nil if none has claimed it yet.
func (t *Terminal) Foreground() *process.Process {
	return t.Root.Stdout()
}

// Display exposes the underlying rendering surface, e.g. for builtins
// like `clear`.
func (t *Terminal) Display() Display { return t.display }

// RepaintPrompt implements process.Foreground for the root: it fires
// when the whole session (the top-level shell) has returned.
func (t *Terminal) RepaintPrompt() {
	fg := t.Foreground()
	if fg != nil {
		t.display.SetPrompt(fg.Prompt)
	}
}

type rootHooks struct {
	process.BaseHooks
	t *Terminal
}

func (h *rootHooks) OnWrite(_ *process.Process, payload output.Output) bool {
	h.t.display.WriteOutput(payload)
	return true
}

// RepaintPrompt implements process.Foreground by delegating to the
// Terminal, since it is the root's Hooks value, not the Terminal
// itself, that Process.Exit looks up via the parent's impl.
func (h *rootHooks) RepaintPrompt() { h.t.RepaintPrompt() }

// OnEOF overrides the default exit-on-EOF behavior: the root has no
// parent and is never meant to terminate itself just because its
// foreground child delivered EOF on its way out. Session end is
// reported by OnReturn below instead.
func (h *rootHooks) OnEOF(*process.Process) {}

func (h *rootHooks) OnReturn(_ *process.Process, _ *process.Process, code int) {
	h.t.display.WriteOutput(output.Text(fmt.Sprintf("[returned %d]", code)))
	h.t.ended = true
}

// Ended reports whether the top-level session has returned.
func (t *Terminal) Ended() bool { return t.ended }

// HandleKey is the single entry point for both keypress and keydown
// events from the host; the distinction collapses to: is this a plain
// printable rune insertion, or does it need line-discipline
// interpretation.
func (t *Terminal) HandleKey(k process.Key) {
	if t.ended {
		return
	}
	fg := t.Foreground()
	if fg == nil {
		return
	}

	if fg.RawInput {
		fg.Input(k)
		return
	}

	switch {
	case k.Name == "Enter":
		t.handleEnter(fg)
	case k.Ctrl && k.Rune == 'c':
		t.content = nil
		t.cursor = 0
		for _, m := range fg.Job() {
			m.Interrupt()
		}
	case k.Ctrl && k.Rune == 'd':
		if len(t.content) == 0 {
			if fg.ExitInput != "" {
				t.display.WriteOutput(output.Text(fg.ExitInput))
			}
			fg.EOF()
		}
	case k.Ctrl && k.Rune == 'l':
		t.display.Clear()
	case k.Ctrl && k.Rune == 'u':
		if fg.InputEnabled {
			t.content = nil
			t.cursor = 0
			t.render(fg)
		}
	case k.Name == "ArrowLeft":
		if t.cursor > 0 {
			t.cursor--
			t.render(fg)
		}
	case k.Name == "ArrowRight":
		if t.cursor < len(t.content) {
			t.cursor++
			t.render(fg)
		}
	case k.Name == "ArrowUp":
		t.historyUp(fg)
	case k.Name == "ArrowDown":
		t.historyDown(fg)
	case k.Name == "Backspace":
		if t.cursor > 0 {
			t.content = append(t.content[:t.cursor-1], t.content[t.cursor:]...)
			t.cursor--
			t.render(fg)
		}
	case k.Name == "Delete":
		if t.cursor < len(t.content) {
			t.content = append(t.content[:t.cursor], t.content[t.cursor+1:]...)
			t.render(fg)
		}
	case k.Name == "Tab":
		// reserved: completion is not specified.
	case k.Ctrl || k.Alt:
		// unrecognized control combination: ignored.
	default:
		if k.Rune != 0 {
			t.insert(k.Rune, fg)
		}
	}
}

func (t *Terminal) insert(r rune, fg *process.Process) {
	buf := make([]rune, 0, len(t.content)+1)
	buf = append(buf, t.content[:t.cursor]...)
	buf = append(buf, r)
	buf = append(buf, t.content[t.cursor:]...)
	t.content = buf
	t.cursor++
	t.render(fg)
}

func (t *Terminal) render(fg *process.Process) {
	text := string(t.content)
	if fg.Password {
		masked := make([]rune, len(t.content))
		for i := range masked {
			masked[i] = '*'
		}
		text = string(masked)
	}
	t.display.SetInputLine(text, t.cursor)
}

func (t *Terminal) handleEnter(fg *process.Process) {
	line := string(t.content)

	if fg.Echo {
		shown := line
		if fg.Password {
			shown = ""
			for range line {
				shown += "*"
			}
		}
		t.display.WriteOutput(output.Text(shown))
	}

	if !fg.Password && line != "" {
		fg.AppendHistory(line)
	}

	fg.Write(output.Text(line))

	t.content = nil
	t.cursor = 0
	fg.SetHistoryIndex(len(fg.History()))
	t.render(fg)
}

func (t *Terminal) historyUp(fg *process.Process) {
	hist := fg.History()
	idx := fg.HistoryIndex()
	if idx == len(hist) {
		t.newest = string(t.content)
	}
	if idx == 0 {
		return
	}
	idx--
	fg.SetHistoryIndex(idx)
	t.content = []rune(hist[idx])
	t.cursor = len(t.content)
	t.render(fg)
}

func (t *Terminal) historyDown(fg *process.Process) {
	hist := fg.History()
	idx := fg.HistoryIndex()
	if idx >= len(hist) {
		return
	}
	idx++
	fg.SetHistoryIndex(idx)
	if idx == len(hist) {
		t.content = []rune(t.newest)
	} else {
		t.content = []rune(hist[idx])
	}
	t.cursor = len(t.content)
	t.render(fg)
}
