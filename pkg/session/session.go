// Package session wires a Terminal, a Shell, the async services and the
// shared error sink into one runnable unit. cmd/webshd is the only
// caller; tests construct pkg/terminal and pkg/shell directly when they
// want finer control.
package session

import (
	"path"

	"webshell/pkg/async"
	"webshell/pkg/output"
	"webshell/pkg/process"
	"webshell/pkg/shell"
	"webshell/pkg/store"
	"webshell/pkg/terminal"
)

const (
	profileFile = ".profile"
	configFile  = "websh.yaml"
)

// Session owns every long-lived piece of one running shell instance.
type Session struct {
	Terminal *terminal.Terminal
	Shell    *shell.Shell
	Services *async.Services
	Store    *store.Store
}

// New opens the vfs at dbPath, builds the process tree (terminal root,
// error sink, shell) and wires it together, but does not yet start the
// shell reading input; call Start for that.
func New(dbPath string, display terminal.Display) (*Session, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	q := async.NewQueue()
	services := async.New(q, st)

	t := terminal.New(display)
	sh := shell.New(t.Root, services, display)
	wireErrorSink(sh, display)

	return &Session{Terminal: t, Shell: sh, Services: services, Store: st}, nil
}

func wireErrorSink(sh *shell.Shell, display terminal.Display) {
	sink := process.NewErrorSink(sh.Proc, func(payload output.Output) {
		display.WriteOutput(payload)
	})
	sink.Execute()
	sh.Proc.SetStderr(sink)
}

// Close releases the vfs. The process tree needs no teardown of its own:
// an abandoned Session simply stops being driven.
func (s *Session) Close() error {
	return s.Store.Close()
}

// Start begins reading input in interactive mode, then applies
// websh.yaml and sources .profile, both read through the vfs like
// every other piece of persisted state. dir is the directory both
// config files are looked up in. Config is applied, and only then is
// .profile fed, preserving the order a synchronous read would give.
func (s *Session) Start(dir string) {
	s.Shell.RunInteractive()
	configPath := path.Join(dir, configFile)
	profilePath := path.Join(dir, profileFile)
	s.Services.Read(configPath, func(data string, err error) {
		if err == nil {
			if cfg, cerr := shell.ParseConfig(data); cerr == nil {
				s.Shell.Apply(cfg)
			}
		}
		s.Services.Read(profilePath, func(data string, err error) {
			if err == nil {
				s.Shell.Feed(data)
			}
		})
	})
}

// StartScript runs src as a single batch and arranges for the shell to
// exit once it drains.
func (s *Session) StartScript(src string) {
	s.Shell.RunScript(src)
}

// Tick runs every completed async callback that is already queued,
// without blocking; cmd/webshd calls this after each key it reads.
func (s *Session) Tick() {
	s.Services.Queue.Drain()
}

// Ended reports whether the top-level shell session has returned.
func (s *Session) Ended() bool { return s.Terminal.Ended() }
