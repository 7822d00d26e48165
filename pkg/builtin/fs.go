package builtin

import (
	"fmt"
	"sort"
	"strings"

	"webshell/pkg/output"
	"webshell/pkg/process"
)

// cat: with args, reads each file in turn and writes its content as
// Text, continuing past a missing file but exiting 1 if any failed;
// with no args, passes every write straight through to stdout.
type catHooks struct {
	process.BaseHooks
	env     Env
	files   []string
	idx     int
	anyFail bool
}

func newCat(env Env, parent *process.Process) *process.Process {
	return process.New("cat", &catHooks{env: env}, parent)
}

func (h *catHooks) OnExecute(p *process.Process, args []string) (int, bool) {
	h.files = args
	if len(h.files) == 0 {
		return 0, false
	}
	h.readNext(p)
	return 0, false
}

func (h *catHooks) OnWrite(p *process.Process, payload output.Output) bool {
	if len(h.files) != 0 {
		return true
	}
	return p.Stdout().Write(payload)
}

func (h *catHooks) readNext(p *process.Process) {
	if h.idx >= len(h.files) {
		code := 0
		if h.anyFail {
			code = 1
		}
		p.Exit(code)
		return
	}
	path := h.files[h.idx]
	h.idx++
	h.env.Services().Read(path, func(content string, err error) {
		if err != nil {
			h.anyFail = true
			p.Stderr().Write(errText("cat", err.Error()))
		} else {
			p.Stdout().Write(output.Text(content))
		}
		h.readNext(p)
	})
}

// ls: lists every key in the vfs, sorted, as a multicolumn Array.
type lsHooks struct {
	process.BaseHooks
	env Env
}

func newLs(env Env, parent *process.Process) *process.Process {
	return process.New("ls", &lsHooks{env: env}, parent)
}

func (h *lsHooks) OnExecute(p *process.Process, _ []string) (int, bool) {
	h.env.Services().List("", func(keys []string, err error) {
		if err != nil {
			p.Stderr().Write(errText("ls", err.Error()))
			p.Exit(1)
			return
		}
		sort.Strings(keys)
		items := make([]output.Output, len(keys))
		for i, k := range keys {
			items[i] = output.Text(k)
		}
		p.Stdout().Write(output.Array{Values: items, Layout: "multicolumn"})
		p.Exit(0)
	})
	return 0, false
}

// mv: renames a vfs path.
type mvHooks struct {
	process.BaseHooks
	env Env
}

func newMv(env Env, parent *process.Process) *process.Process {
	return process.New("mv", &mvHooks{env: env}, parent)
}

func (h *mvHooks) OnExecute(p *process.Process, args []string) (int, bool) {
	if len(args) < 2 {
		p.Stderr().Write(errText("mv", "missing operand"))
		return 1, true
	}
	h.env.Services().Move(args[0], args[1], func(err error) {
		if err != nil {
			p.Stderr().Write(errText("mv", err.Error()))
			p.Exit(1)
			return
		}
		p.Exit(0)
	})
	return 0, false
}

// rm: removes each argument in turn; always exits 0 (idempotent).
type rmHooks struct {
	process.BaseHooks
	env Env
}

func newRm(env Env, parent *process.Process) *process.Process {
	return process.New("rm", &rmHooks{env: env}, parent)
}

func (h *rmHooks) OnExecute(p *process.Process, args []string) (int, bool) {
	h.removeNext(p, args, 0)
	return 0, false
}

func (h *rmHooks) removeNext(p *process.Process, args []string, i int) {
	if i >= len(args) {
		p.Exit(0)
		return
	}
	h.env.Services().Remove(args[i], func(err error) {
		h.removeNext(p, args, i+1)
	})
}

// tee: forwards every write downstream while also accumulating it; on
// EOF, persists the accumulation to the named vfs path.
type teeHooks struct {
	process.BaseHooks
	env  Env
	path string
	buf  strings.Builder
}

func newTee(env Env, parent *process.Process) *process.Process {
	return process.New("tee", &teeHooks{env: env}, parent)
}

func (h *teeHooks) OnExecute(p *process.Process, args []string) (int, bool) {
	if len(args) < 1 {
		p.Stderr().Write(errText("tee", "missing operand"))
		return 1, true
	}
	h.path = args[0]
	return 0, false
}

func (h *teeHooks) OnWrite(p *process.Process, payload output.Output) bool {
	if h.buf.Len() > 0 {
		h.buf.WriteString("\n")
	}
	h.buf.WriteString(payload.Str())
	return p.Stdout().Write(payload)
}

func (h *teeHooks) OnEOF(p *process.Process) {
	h.env.Services().Write(h.path, h.buf.String(), func(err error) {
		if err != nil {
			p.Stderr().Write(errText("tee", fmt.Sprint(err)))
		}
		p.Exit(0)
	})
}
