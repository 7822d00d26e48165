package shell

import (
	"path/filepath"
	"testing"
	"time"

	"webshell/pkg/async"
	"webshell/pkg/output"
	"webshell/pkg/process"
	"webshell/pkg/store"
	"webshell/pkg/terminal"
)

func newTestShell(t *testing.T) (*Shell, *terminal.MemDisplay) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	q := async.NewQueue()
	services := async.New(q, st)
	display := terminal.NewMemDisplay()
	root := terminal.New(display).Root
	s := New(root, services, display)
	errSink := process.NewErrorSink(s.Proc, func(payload output.Output) {
		display.WriteOutput(payload)
	})
	errSink.Execute()
	s.Proc.SetStderr(errSink)
	return s, display
}

func drain(q *async.Queue) {
	for i := 0; i < 10; i++ {
		if !q.Wait(5 * time.Millisecond) {
			return
		}
	}
}

func TestEchoWritesOutput(t *testing.T) {
	s, display := newTestShell(t)
	s.RunInteractive()
	s.Feed("echo hello world")
	drain(s.services.Queue)

	if len(display.Lines) == 0 || display.Lines[len(display.Lines)-1] != "hello world" {
		t.Errorf("got lines %v, want last = %q", display.Lines, "hello world")
	}
}

func TestSetThenEchoSubstitutesVariable(t *testing.T) {
	s, display := newTestShell(t)
	s.RunInteractive()
	s.Feed("set name world; echo hello $name")
	drain(s.services.Queue)

	if len(display.Lines) == 0 || display.Lines[len(display.Lines)-1] != "hello world" {
		t.Errorf("got lines %v, want last = %q", display.Lines, "hello world")
	}
}

func TestCommandNotFoundSetsExitCode(t *testing.T) {
	s, _ := newTestShell(t)
	s.RunInteractive()
	s.Feed("bogus-command")
	drain(s.services.Queue)

	if got := s.Proc.Variables()["?"]; got != "127" {
		t.Errorf("? = %q, want 127", got)
	}
}

func TestExitFormTerminatesShell(t *testing.T) {
	s, _ := newTestShell(t)
	s.RunInteractive()
	s.Feed("exit 3")
	drain(s.services.Queue)

	if s.Proc.State() != process.Terminated {
		t.Fatalf("shell state = %v, want Terminated", s.Proc.State())
	}
	if s.Proc.ExitCode() != 3 {
		t.Errorf("exit code = %d, want 3", s.Proc.ExitCode())
	}
}

func TestPipelineFiltersThroughGrepAndHead(t *testing.T) {
	s, display := newTestShell(t)
	s.RunInteractive()
	s.services.Store.Write("a", "")
	s.services.Store.Write("ab", "")
	s.services.Store.Write("b", "")
	s.Feed("ls | grep ^a | head 1")
	drain(s.services.Queue)

	found := false
	for _, l := range display.Lines {
		if l == "a" {
			found = true
		}
	}
	if !found {
		t.Errorf("got lines %v, want one of them to be %q", display.Lines, "a")
	}
}
