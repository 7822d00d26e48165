// Package shell implements the command interpreter: a line/pipe/
// whitespace parser, a one-job-at-a-time scheduler that wires each
// pipeline and launches it right to left, the built-in and
// special-form lookup tables, and history persistence. The shell is
// itself a Process, a plain value owned by the terminal like any
// other foreground program, rather than a privileged singleton.
package shell

import (
	"fmt"
	"log"

	"webshell/pkg/async"
	"webshell/pkg/builtin"
	"webshell/pkg/diag"
	"webshell/pkg/logutil"
	"webshell/pkg/output"
	"webshell/pkg/process"
	"webshell/pkg/terminal"
)

var defaultLogger = logutil.GetLogger("[shell] ")

// Shell owns the job queue and the built-in/special-form environment.
// It implements builtin.Env so builtin.Table constructors can reach
// async services and the display without importing this package.
type Shell struct {
	Proc    *process.Process
	services *async.Services
	display terminal.Display
	logger  *log.Logger

	pending    [][]stage
	jobRunning bool
	lastCode   int

	histLoaded  bool
	histWriting bool
	histDirty   bool

	exitRequested bool
	exitCode      int

	scriptMode bool
}

// New constructs a Shell parented to root (normally the Terminal's
// root process), with root as its stdin and stdout. It does not Execute
// the shell; RunInteractive or RunScript does, and that is when the
// shell claims the foreground the same way any other process does.
func New(root *process.Process, services *async.Services, display terminal.Display) *Shell {
	s := &Shell{services: services, display: display, logger: defaultLogger}
	s.Proc = process.New("sh", &shellHooks{s: s}, root)
	s.Proc.SetStdin(root)
	s.Proc.SetStdout(root)
	s.Proc.Echo = true
	s.Proc.ExitInput = "exit"
	s.Proc.Prompt = `<span class="prompt">$ </span>`
	return s
}

// Services implements builtin.Env.
func (s *Shell) Services() *async.Services { return s.services }

// Display implements builtin.Env.
func (s *Shell) Display() terminal.Display { return s.display }

// LiveProcesses implements builtin.Env: every process reachable from
// the shell down, for the `ps` built-in.
func (s *Shell) LiveProcesses() []*process.Process {
	var out []*process.Process
	var walk func(p *process.Process)
	walk = func(p *process.Process) {
		for _, c := range p.Children() {
			out = append(out, c)
			walk(c)
		}
	}
	walk(s.Proc)
	return out
}

func (s *Shell) requestExit(code int) {
	s.exitRequested = true
	s.exitCode = code
}

// RunInteractive starts the shell in interactive mode. Profile sourcing
// is done by pkg/session's Start after this call, via Feed, since it is
// just ordinary input lines.
func (s *Shell) RunInteractive() {
	s.Proc.Execute()
}

// RunScript feeds the given source as one batch of input and arranges
// for the shell to exit with the last job's code once it drains.
func (s *Shell) RunScript(src string) {
	s.scriptMode = true
	s.Proc.Execute()
	s.Feed(src)
}

// Feed delivers a buffer of shell input exactly as if it had arrived
// from the terminal's Enter key. Used for piped-stdin mode, script
// mode, and profile sourcing alike, since all three are just sources
// of command text.
func (s *Shell) Feed(buf string) {
	s.Proc.Write(output.Text(buf))
}

type shellHooks struct {
	process.BaseHooks
	s *Shell
}

func (h *shellHooks) OnExecute(p *process.Process, _ []string) (int, bool) {
	return 0, false
}

func (h *shellHooks) OnWrite(p *process.Process, payload output.Output) bool {
	s := h.s
	skipWrite := s.loadHistory()
	for _, line := range splitLines(payload.Str()) {
		p.AppendHistory(line)
		if skipWrite {
			skipWrite = false
		} else {
			s.scheduleHistoryWrite()
		}
		stages, ok := parseJob(line)
		if !ok {
			pipeErr := &diag.Error{
				Type:    "pipe syntax",
				Message: "empty command between pipes",
				Context: *diag.NewContext("shell input", line, diag.PointRanging(0)),
			}
			s.logger.Println(pipeErr.Show(""))
			p.Stderr().Write(output.Text("sh: invalid pipe"))
			s.lastCode = 1
			s.setPrompt()
			continue
		}
		s.pending = append(s.pending, stages)
	}
	s.runNext()
	return true
}

func (h *shellHooks) OnInterrupt(p *process.Process) {
	for _, c := range p.Children() {
		c.Interrupt()
	}
}

// RepaintPrompt implements process.Foreground: fired by a job's last
// stage when it exits and the whole job has returned, restoring the
// shell to foreground.
func (h *shellHooks) RepaintPrompt() {
	h.s.setPrompt()
}

func (h *shellHooks) OnReturn(parent, child *process.Process, code int) {
	s := h.s
	job := child.Job()
	if job[len(job)-1] == child {
		s.lastCode = code
		s.Proc.Variables()["?"] = fmt.Sprint(code)
		s.setPrompt()
	}
	if !child.Returned() {
		return
	}
	s.jobRunning = false
	s.runNext()
}

func (s *Shell) setPrompt() {
	if s.lastCode == 0 {
		s.Proc.Prompt = `<span class="prompt">$ </span>`
	} else {
		s.Proc.Prompt = `<span class="prompt error">$ </span>`
	}
	s.display.SetPrompt(s.Proc.Prompt)
}

// runNext launches the next queued job, or, once the queue is dry,
// repaints the prompt, exits the shell if requested, or ends script
// mode.
func (s *Shell) runNext() {
	if s.jobRunning {
		return
	}
	if len(s.pending) == 0 {
		if s.exitRequested {
			s.Proc.Exit(s.exitCode)
			return
		}
		if s.scriptMode || s.Proc.InputEnded() {
			s.Proc.Exit(s.lastCode)
			return
		}
		s.setPrompt()
		return
	}
	job := s.pending[0]
	s.pending = s.pending[1:]
	s.launch(job)
}

func (s *Shell) launch(job []stage) {
	n := len(job)
	procs := make([]*process.Process, n)
	argv := make([][]string, n)

	for i, st := range job {
		ctor, isSpecial := specials[st.tokens[0]]
		if isSpecial {
			procs[i] = ctor(s, s.Proc)
		} else if bctor, ok := builtin.Table[st.tokens[0]]; ok {
			procs[i] = bctor(s, s.Proc)
		} else {
			s.Proc.Stderr().Write(output.Text("sh: " + st.tokens[0] + ": command not found"))
			s.lastCode = 127
			s.Proc.Variables()["?"] = "127"
			s.setPrompt()
			s.runNext()
			return
		}
		argv[i] = substitute(st.tokens[1:], s.Proc.Variables())
	}

	for _, p := range procs {
		p.SetJob(procs)
		p.SetStderr(s.Proc.Stderr())
	}
	procs[0].SetStdin(s.Proc.Stdin())
	procs[n-1].SetStdout(s.Proc.Stdout())
	for i := 0; i < n-1; i++ {
		procs[i].SetStdout(procs[i+1])
		procs[i+1].SetStdin(procs[i])
	}

	s.jobRunning = true
	for i := n - 1; i >= 0; i-- {
		procs[i].Execute(argv[i]...)
	}
}
