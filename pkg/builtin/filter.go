package builtin

import (
	"regexp"
	"strconv"

	"webshell/pkg/output"
	"webshell/pkg/process"
)

const defaultFilterCount = 10

// head: takes the first n items seen across potentially many writes.
// Once n is reached it flushes a single Array and returns false from
// that write, telling its upstream to stop producing. See DESIGN.md
// for why this is the mechanism rather than head driving its own EOF.
type headHooks struct {
	process.BaseHooks
	n   int
	buf []output.Output
}

func newHead(_ Env, parent *process.Process) *process.Process {
	return process.New("head", &headHooks{}, parent)
}

func (h *headHooks) OnExecute(p *process.Process, args []string) (int, bool) {
	h.n = defaultFilterCount
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil {
			h.n = v
		}
	}
	return 0, false
}

func (h *headHooks) OnWrite(p *process.Process, payload output.Output) bool {
	for _, item := range payload.Items() {
		h.buf = append(h.buf, item)
		if len(h.buf) >= h.n {
			h.flush(p)
			return false
		}
	}
	return true
}

func (h *headHooks) OnEOF(p *process.Process) {
	h.flush(p)
}

func (h *headHooks) flush(p *process.Process) {
	if p.State() != process.Running {
		return
	}
	if len(h.buf) > 0 {
		p.Stdout().Write(output.Array{Values: h.buf})
		h.buf = nil
	}
	p.Exit(0)
}

// tail: keeps a ring buffer of the last n items and flushes it as a
// single Array only once EOF arrives, since "last n" cannot be known
// before the stream ends.
type tailHooks struct {
	process.BaseHooks
	n   int
	buf []output.Output
}

func newTail(_ Env, parent *process.Process) *process.Process {
	return process.New("tail", &tailHooks{}, parent)
}

func (h *tailHooks) OnExecute(p *process.Process, args []string) (int, bool) {
	h.n = defaultFilterCount
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil {
			h.n = v
		}
	}
	return 0, false
}

func (h *tailHooks) OnWrite(p *process.Process, payload output.Output) bool {
	for _, item := range payload.Items() {
		h.buf = append(h.buf, item)
		if len(h.buf) > h.n {
			h.buf = h.buf[len(h.buf)-h.n:]
		}
	}
	return true
}

func (h *tailHooks) OnEOF(p *process.Process) {
	if len(h.buf) > 0 {
		p.Stdout().Write(output.Array{Values: h.buf})
	}
	p.Exit(0)
}

// grep: filters items by regex against their Str() form, writing
// matches from each incoming write as a single Array. Exits 0 if any
// line ever matched, 1 otherwise.
type grepHooks struct {
	process.BaseHooks
	re      *regexp.Regexp
	matched bool
}

func newGrep(_ Env, parent *process.Process) *process.Process {
	return process.New("grep", &grepHooks{}, parent)
}

func (h *grepHooks) OnExecute(p *process.Process, args []string) (int, bool) {
	if len(args) < 1 {
		p.Stderr().Write(errText("grep", "missing pattern"))
		return 2, true
	}
	re, err := regexp.Compile(args[0])
	if err != nil {
		p.Stderr().Write(errText("grep", err.Error()))
		return 2, true
	}
	h.re = re
	return 0, false
}

func (h *grepHooks) OnWrite(p *process.Process, payload output.Output) bool {
	var matches []output.Output
	for _, item := range payload.Items() {
		if h.re.MatchString(item.Str()) {
			matches = append(matches, item)
			h.matched = true
		}
	}
	if len(matches) > 0 {
		return p.Stdout().Write(output.Array{Values: matches})
	}
	return true
}

func (h *grepHooks) OnEOF(p *process.Process) {
	code := 1
	if h.matched {
		code = 0
	}
	p.Exit(code)
}
