package shell

import (
	"strconv"
	"strings"

	"webshell/pkg/output"
	"webshell/pkg/process"
)

// specialFunc mirrors builtin.Func but, unlike a regular built-in,
// closes over the shell itself so it can reach the shared environment:
// special forms share the shell's environment rather than getting
// their own snapshot.
type specialFunc func(s *Shell, parent *process.Process) *process.Process

var specials = map[string]specialFunc{
	"history": newHistoryForm,
	"read":    newReadForm,
	"echo":    newEchoForm,
	"set":     newSetForm,
	"exit":    newExitForm,
}

func newHistoryForm(s *Shell, parent *process.Process) *process.Process {
	return process.NewPrinter(parent, output.Text(strings.Join(s.Proc.History(), "\n")))
}

func newReadForm(s *Shell, parent *process.Process) *process.Process {
	bound := false
	return process.NewMonitor(parent,
		func(proc *process.Process, payload output.Output) {
			if bound {
				return
			}
			bound = true
			if name := firstArg(proc); name != "" {
				s.Proc.Variables()[name] = payload.Str()
			}
			proc.Exit(0)
		}, nil)
}

func newEchoForm(_ *Shell, parent *process.Process) *process.Process {
	return process.NewCaller(parent, func(p *process.Process) int {
		p.Stdout().Write(output.Text(strings.Join(p.Args(), " ")))
		return 0
	})
}

func newSetForm(s *Shell, parent *process.Process) *process.Process {
	return process.NewCaller(parent, func(p *process.Process) int {
		args := p.Args()
		if len(args) == 0 {
			return 2
		}
		s.Proc.Variables()[args[0]] = strings.Join(args[1:], " ")
		return 0
	})
}

func newExitForm(s *Shell, parent *process.Process) *process.Process {
	return process.NewCaller(parent, func(p *process.Process) int {
		code := 0
		args := p.Args()
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return 2
			}
			code = v
		}
		s.requestExit(code)
		return code
	})
}

func firstArg(p *process.Process) string {
	if args := p.Args(); len(args) > 0 {
		return args[0]
	}
	return ""
}
