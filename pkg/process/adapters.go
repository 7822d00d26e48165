package process

import "webshell/pkg/output"

// Monitor is a process whose every write invokes a callback, and whose
// EOF invokes an optional second callback (falling through to the
// default EOF behavior when absent). It backs simple built-ins like
// `read` that just want to observe a stream.
type Monitor struct {
	BaseHooks
	OnWriteFunc func(p *Process, payload output.Output)
	OnEOFFunc   func(p *Process)
}

func (m *Monitor) OnWrite(p *Process, payload output.Output) bool {
	if m.OnWriteFunc != nil {
		m.OnWriteFunc(p, payload)
	}
	return true
}

func (m *Monitor) OnEOF(p *Process) {
	if m.OnEOFFunc != nil {
		m.OnEOFFunc(p)
		return
	}
	BaseHooks{}.OnEOF(p)
}

// NewMonitor constructs and wires a Monitor process.
func NewMonitor(parent *Process, onWrite func(p *Process, payload output.Output), onEOF func(p *Process)) *Process {
	m := &Monitor{OnWriteFunc: onWrite, OnEOFFunc: onEOF}
	return New("monitor", m, parent)
}

// Printer emits a fixed payload on execute and exits 0. It backs
// built-ins like `history`.
type Printer struct {
	BaseHooks
	Payload output.Output
}

func (pr *Printer) OnExecute(p *Process, _ []string) (int, bool) {
	p.stdout.Write(pr.Payload)
	return 0, true
}

// NewPrinter constructs and wires a Printer process.
func NewPrinter(parent *Process, payload output.Output) *Process {
	return New("printer", &Printer{Payload: payload}, parent)
}

// Caller runs a one-shot effect on execute, then exits with the code the
// effect returns. It backs built-ins like `echo`, `set` and `exit`.
type Caller struct {
	BaseHooks
	Fn func(p *Process) int
}

func (c *Caller) OnExecute(p *Process, _ []string) (int, bool) {
	return c.Fn(p), true
}

// NewCaller constructs and wires a Caller process.
func NewCaller(parent *Process, fn func(p *Process) int) *Process {
	return New("caller", &Caller{Fn: fn}, parent)
}

// ErrorSink is a trivial always-live process that wraps every write into
// an error-styled payload and forwards it to the controlling terminal.
type ErrorSink struct {
	BaseHooks
	Forward func(payload output.Output)
}

func (e *ErrorSink) OnWrite(_ *Process, payload output.Output) bool {
	if e.Forward != nil {
		e.Forward(errorStyle(payload))
	}
	return true
}

// OnEOF keeps the sink Running: every process that exits delivers EOF to
// its stderr, and the sink outlives them all.
func (e *ErrorSink) OnEOF(*Process) {}

func errorStyle(payload output.Output) output.Output {
	return output.Raw(`<span class="error">` + output.Text(payload.Str()).Render() + `</span>`)
}

// NewErrorSink constructs an ErrorSink process. It is never itself
// executed via Execute with args; it is simply wired as a stderr
// endpoint and left Running by its owner (see pkg/session).
func NewErrorSink(parent *Process, forward func(output.Output)) *Process {
	return New("error-sink", &ErrorSink{Forward: forward}, parent)
}
