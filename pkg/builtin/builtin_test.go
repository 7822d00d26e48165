package builtin

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

type testEnv struct {
	services *async.Services
	display  terminal.Display
	live     []*process.Process
}

func (e *testEnv) Services() *async.Services        { return e.services }
func (e *testEnv) Display() terminal.Display        { return e.display }
func (e *testEnv) LiveProcesses() []*process.Process { return e.live }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	q := async.NewQueue()
	return &testEnv{services: async.New(q, st), display: terminal.NewMemDisplay()}
}

func drain(q *async.Queue) {
	for i := 0; i < 10; i++ {
		if !q.Wait(5 * time.Millisecond) {
			return
		}
	}
}

// sink captures every write made to it, standing in for a downstream
// stage in a pipeline.
type sink struct {
	process.BaseHooks
	writes []output.Output
}

func newSink(parent *process.Process) (*process.Process, *sink) {
	h := &sink{}
	p := process.New("sink", h, parent)
	return p, h
}

func (s *sink) OnWrite(_ *process.Process, payload output.Output) bool {
	s.writes = append(s.writes, payload)
	return true
}

func TestCatWithFileArgs(t *testing.T) {
	env := newTestEnv(t)
	env.services.Store.Write("a.txt", "hello")
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()
	out, sk := newSink(root)
	out.Execute()

	p := newCat(env, root)
	p.SetStdout(out)
	p.Execute("a.txt")
	drain(env.services.Queue)

	if len(sk.writes) != 1 || sk.writes[0].Str() != "hello" {
		t.Errorf("writes = %v, want [hello]", sk.writes)
	}
	if p.State() != process.Terminated || p.ExitCode() != 0 {
		t.Errorf("state=%v code=%d, want Terminated/0", p.State(), p.ExitCode())
	}
}

func TestCatMissingFileSetsExitOne(t *testing.T) {
	env := newTestEnv(t)
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()
	out, _ := newSink(root)
	out.Execute()
	errOut, errSk := newSink(root)
	errOut.Execute()

	p := newCat(env, root)
	p.SetStdout(out)
	p.SetStderr(errOut)
	p.Execute("missing.txt")
	drain(env.services.Queue)

	if p.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", p.ExitCode())
	}
	if len(errSk.writes) == 0 {
		t.Error("expected an error write")
	}
}

func TestLsListsSortedKeys(t *testing.T) {
	env := newTestEnv(t)
	env.services.Store.Write("b", "")
	env.services.Store.Write("a", "")
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()
	out, sk := newSink(root)
	out.Execute()

	p := newLs(env, root)
	p.SetStdout(out)
	p.Execute()
	drain(env.services.Queue)

	if len(sk.writes) != 1 {
		t.Fatalf("writes = %v, want 1 Array", sk.writes)
	}
	arr, ok := sk.writes[0].(output.Array)
	if !ok || len(arr.Values) != 2 || arr.Values[0].Str() != "a" || arr.Values[1].Str() != "b" {
		t.Errorf("got %v, want sorted [a b]", sk.writes[0])
	}
}

func TestMvMissingOperand(t *testing.T) {
	env := newTestEnv(t)
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()
	errOut, errSk := newSink(root)
	errOut.Execute()

	p := newMv(env, root)
	p.SetStderr(errOut)
	p.Execute("onlyone")

	if p.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", p.ExitCode())
	}
	if len(errSk.writes) == 0 {
		t.Error("expected a missing-operand error")
	}
}

func TestRmIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()

	p := newRm(env, root)
	p.Execute("never-existed")
	drain(env.services.Queue)

	if p.ExitCode() != 0 {
		t.Errorf("exit code = %d, want 0", p.ExitCode())
	}
}

func TestTeePersistsAndForwards(t *testing.T) {
	env := newTestEnv(t)
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()
	out, sk := newSink(root)
	out.Execute()

	p := newTee(env, root)
	p.SetStdout(out)
	p.Execute("out.txt")
	p.Write(output.Text("line one"))
	p.EOF()
	drain(env.services.Queue)

	if len(sk.writes) != 1 || sk.writes[0].Str() != "line one" {
		t.Errorf("forwarded = %v, want [line one]", sk.writes)
	}
	content, err := env.services.Store.Read("out.txt")
	if err != nil || content != "line one" {
		t.Errorf("stored = %q, err = %v, want %q", content, err, "line one")
	}
}

func TestHeadStopsUpstreamOnceFull(t *testing.T) {
	env := newTestEnv(t)
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()
	out, sk := newSink(root)
	out.Execute()

	p := newHead(env, root)
	p.SetStdout(out)
	p.Execute("2")

	if ok := p.Write(output.Array{Values: []output.Output{
		output.Text("a"), output.Text("b"), output.Text("c"),
	}}); ok {
		t.Error("expected head to report it can take no more once full")
	}

	if len(sk.writes) != 1 {
		t.Fatalf("writes = %v, want 1 Array", sk.writes)
	}
	arr := sk.writes[0].(output.Array)
	if len(arr.Values) != 2 || arr.Values[0].Str() != "a" || arr.Values[1].Str() != "b" {
		t.Errorf("got %v, want [a b]", arr.Values)
	}
	if p.State() != process.Terminated {
		t.Error("expected head to exit once full")
	}
}

func TestTailKeepsLastN(t *testing.T) {
	env := newTestEnv(t)
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()
	out, sk := newSink(root)
	out.Execute()

	p := newTail(env, root)
	p.SetStdout(out)
	p.Execute("2")
	p.Write(output.Array{Values: []output.Output{
		output.Text("a"), output.Text("b"), output.Text("c"),
	}})
	p.EOF()

	if len(sk.writes) != 1 {
		t.Fatalf("writes = %v, want 1 Array", sk.writes)
	}
	arr := sk.writes[0].(output.Array)
	if len(arr.Values) != 2 || arr.Values[0].Str() != "b" || arr.Values[1].Str() != "c" {
		t.Errorf("got %v, want [b c]", arr.Values)
	}
}

func TestGrepExitCodeReflectsMatch(t *testing.T) {
	env := newTestEnv(t)
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()
	out, sk := newSink(root)
	out.Execute()

	p := newGrep(env, root)
	p.SetStdout(out)
	p.Execute("^a")
	p.Write(output.Array{Values: []output.Output{output.Text("apple"), output.Text("berry")}})
	p.EOF()

	if len(sk.writes) != 1 || sk.writes[0].Str() != "apple" {
		t.Errorf("got %v, want [apple]", sk.writes)
	}
	if p.ExitCode() != 0 {
		t.Errorf("exit code = %d, want 0", p.ExitCode())
	}
}

func TestGrepNoMatchExitsOne(t *testing.T) {
	env := newTestEnv(t)
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()
	out, _ := newSink(root)
	out.Execute()

	p := newGrep(env, root)
	p.SetStdout(out)
	p.Execute("zzz")
	p.Write(output.Text("apple"))
	p.EOF()

	if p.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", p.ExitCode())
	}
}

func TestClearClearsDisplay(t *testing.T) {
	env := newTestEnv(t)
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()
	display := env.display.(*terminal.MemDisplay)
	display.WriteOutput(output.Text("stale"))

	p := newClear(env, root)
	p.Execute()

	if len(display.Lines) != 0 {
		t.Errorf("lines = %v, want empty after clear", display.Lines)
	}
	if p.ExitCode() != 0 {
		t.Errorf("exit code = %d, want 0", p.ExitCode())
	}
}

func TestPsListsLiveProcesses(t *testing.T) {
	env := newTestEnv(t)
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()
	child := process.New("cat", &process.BaseHooks{}, root)
	child.Execute()
	env.live = []*process.Process{child}
	out, sk := newSink(root)
	out.Execute()

	p := newPs(env, root)
	p.SetStdout(out)
	p.Execute()

	if len(sk.writes) != 1 {
		t.Fatalf("writes = %v, want 1 Array", sk.writes)
	}
	arr := sk.writes[0].(output.Array)
	if len(arr.Values) != 1 {
		t.Fatalf("rows = %v, want 1", arr.Values)
	}
}

func TestCurlMissingURL(t *testing.T) {
	env := newTestEnv(t)
	root := process.New("root", &process.BaseHooks{}, nil)
	root.Execute()
	errOut, errSk := newSink(root)
	errOut.Execute()

	p := newCurl(env, root)
	p.SetStderr(errOut)
	p.Execute()

	if p.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", p.ExitCode())
	}
	if len(errSk.writes) == 0 {
		t.Error("expected a missing-url error")
	}
}
