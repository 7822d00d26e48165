package terminal

import "webshell/pkg/output"

// MemDisplay is an in-memory Display used by tests. It keeps every
// rendered line so tests can assert on exact output.
type MemDisplay struct {
	Lines  []string
	Prompt string
	Input  string
	Cursor int
	UI     interface{}
}

// NewMemDisplay returns an empty MemDisplay.
func NewMemDisplay() *MemDisplay { return &MemDisplay{} }

func (d *MemDisplay) WriteOutput(o output.Output) {
	d.Lines = append(d.Lines, o.Str())
}

func (d *MemDisplay) SetPrompt(markup string)            { d.Prompt = markup }
func (d *MemDisplay) SetInputLine(text string, cur int)   { d.Input, d.Cursor = text, cur }
func (d *MemDisplay) Clear()                              { d.Lines = nil }
func (d *MemDisplay) ShowUI(ui interface{})               { d.UI = ui }
func (d *MemDisplay) HideUI()                             { d.UI = nil }
