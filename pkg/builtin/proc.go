package builtin

import (
	"fmt"
	"strconv"
	"time"

	"webshell/pkg/async"
	"webshell/pkg/output"
	"webshell/pkg/process"
)

// sleep: waits the given number of seconds, aborting the timer and
// exiting 130 if interrupted.
type sleepHooks struct {
	process.BaseHooks
	env    Env
	handle *async.Handle
}

func newSleep(env Env, parent *process.Process) *process.Process {
	return process.New("sleep", &sleepHooks{env: env}, parent)
}

func (h *sleepHooks) OnExecute(p *process.Process, args []string) (int, bool) {
	secs := 0.0
	if len(args) > 0 {
		if v, err := strconv.ParseFloat(args[0], 64); err == nil {
			secs = v
		} else {
			p.Stderr().Write(errText("sleep", "invalid duration"))
			return 1, true
		}
	}
	h.handle = h.env.Services().Timeout(
		time.Duration(secs*float64(time.Second)), func() { p.Exit(0) })
	return 0, false
}

func (h *sleepHooks) OnInterrupt(p *process.Process) {
	h.handle.Abort()
	h.BaseHooks.OnInterrupt(p)
}

// clear: clears the terminal's output pane.
type clearHooks struct {
	process.BaseHooks
	env Env
}

func newClear(env Env, parent *process.Process) *process.Process {
	return process.New("clear", &clearHooks{env: env}, parent)
}

func (h *clearHooks) OnExecute(p *process.Process, _ []string) (int, bool) {
	h.env.Display().Clear()
	return 0, true
}

// ps: lists every live process reachable from the shell, one row per
// line: "pid kind state".
type psHooks struct {
	process.BaseHooks
	env Env
}

func newPs(env Env, parent *process.Process) *process.Process {
	return process.New("ps", &psHooks{env: env}, parent)
}

func (h *psHooks) OnExecute(p *process.Process, _ []string) (int, bool) {
	rows := make([]output.Output, 0)
	for _, row := range h.env.LiveProcesses() {
		rows = append(rows, output.Text(
			fmt.Sprintf("%d %s %s", row.ID, row.Kind, row.State())))
	}
	p.Stdout().Write(output.Array{Values: rows})
	return 0, true
}
