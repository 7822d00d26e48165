package builtin

import (
	"webshell/pkg/editor"
	"webshell/pkg/process"
)

// vi [file]: launches the modal editor as a child process. The editor
// takes foreground ownership itself via its RawInput flag; this
// constructor only wires it into the process tree.
func newVi(env Env, parent *process.Process) *process.Process {
	return editor.New(env.Services(), env.Display(), parent)
}
