// Command webshd is a host-terminal harness for the shell implemented
// by this module, for driving and inspecting it from a real TTY
// outside a browser.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"webshell/pkg/session"
	"webshell/pkg/terminal/hostkeys"
)

func main() {
	os.Exit(run())
}

func run() int {
	var script string
	flag.StringVar(&script, "c", "", "run the given script and exit instead of starting interactively")
	flag.Parse()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dbPath := os.Getenv("WEBSH_DB")
	if dbPath == "" {
		dbPath = home + "/.websh.db"
	}

	display := newHostDisplay(os.Stdout)
	s, err := session.New(dbPath, display)
	if err != nil {
		fmt.Fprintln(os.Stderr, "webshd:", err)
		return 1
	}
	defer s.Close()

	if script != "" {
		s.StartScript(script)
		s.Tick()
		return s.Shell.Proc.ExitCode()
	}

	if !hostkeys.IsTTY(os.Stdin) {
		return runPiped(s)
	}
	return runInteractive(s, home)
}

func runPiped(s *session.Session) int {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "webshd:", err)
		return 1
	}
	s.StartScript(string(data))
	s.Tick()
	return s.Shell.Proc.ExitCode()
}

func runInteractive(s *session.Session, home string) int {
	restore, err := hostkeys.Raw(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Fprintln(os.Stderr, "webshd:", err)
		return 1
	}
	defer restore()

	s.Start(home)

	keys := hostkeys.NewReader(os.Stdin)
	for !s.Ended() {
		k, err := keys.ReadKey()
		if err != nil {
			break
		}
		s.Terminal.HandleKey(k)
		s.Tick()
	}
	return s.Shell.Proc.ExitCode()
}
