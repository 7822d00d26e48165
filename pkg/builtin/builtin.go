// Package builtin implements the shell's small filters and file tools:
// cat, ls, mv, rm, curl, sleep, clear, tee, head, tail, grep, ps, vi
// and js. Each one is a thin Hooks implementation or an adapter
// (process.Monitor/Printer/Caller), grouped into files by concern.
package builtin

import (
	"webshell/pkg/async"
	"webshell/pkg/output"
	"webshell/pkg/process"
	"webshell/pkg/terminal"
)

// Env is the seam builtins use to reach the outside world, so this
// package never imports pkg/shell (which in turn imports pkg/builtin).
type Env interface {
	Services() *async.Services
	Display() terminal.Display
	LiveProcesses() []*process.Process
}

// Func constructs and wires (but does not Execute) a builtin process.
// The caller Execute()s it with the stage's argv once right-to-left
// launch order says it is time to.
type Func func(env Env, parent *process.Process) *process.Process

// Table is the set of built-in command names this package provides.
var Table = map[string]Func{
	"cat":   newCat,
	"ls":    newLs,
	"mv":    newMv,
	"rm":    newRm,
	"curl":  newCurl,
	"sleep": newSleep,
	"clear": newClear,
	"tee":   newTee,
	"head":  newHead,
	"tail":  newTail,
	"grep":  newGrep,
	"ps":    newPs,
	"vi":    newVi,
	"js":    newJS,
}

func errText(cmd, msg string) output.Output {
	return output.Text(cmd + ": " + msg)
}
