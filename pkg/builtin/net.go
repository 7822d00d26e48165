package builtin

import (
	"webshell/pkg/async"
	"webshell/pkg/output"
	"webshell/pkg/process"
)

// curl: issues a GET request and writes the body, or a diagnostic with
// the HTTP status on failure.
type curlHooks struct {
	process.BaseHooks
	env    Env
	handle *async.Handle
}

func newCurl(env Env, parent *process.Process) *process.Process {
	return process.New("curl", &curlHooks{env: env}, parent)
}

func (h *curlHooks) OnExecute(p *process.Process, args []string) (int, bool) {
	if len(args) < 1 {
		p.Stderr().Write(errText("curl", "missing url"))
		return 1, true
	}
	h.handle = h.env.Services().Request("GET", args[0], 0, func(body string, err error) {
		if err != nil {
			if se, ok := err.(async.StatusError); ok {
				p.Stderr().Write(errText("curl", se.Error()))
			} else {
				p.Stderr().Write(errText("curl", err.Error()))
			}
			p.Exit(1)
			return
		}
		p.Stdout().Write(output.Text(body))
		p.Exit(0)
	})
	return 0, false
}

func (h *curlHooks) OnInterrupt(p *process.Process) {
	h.handle.Abort()
	h.BaseHooks.OnInterrupt(p)
}
