// Package output defines the polymorphic value that flows between
// processes along a pipeline: a small tagged sum type with a uniform
// rendering, stringification and decomposition interface.
package output

import (
	"fmt"
	"html"
	"strings"
)

// Output is implemented by every payload variant that can travel along a
// pipeline: Raw, Text, Array and Object.
type Output interface {
	// Kind identifies the variant, e.g. "text", "array".
	Kind() string
	// Str returns the flat string form of the value.
	Str() string
	// Render returns the value's DOM-ready representation. For Text this
	// escapes HTML; for Raw it is passed through verbatim.
	Render() string
	// Items decomposes the value into a sequence of sub-outputs. Text and
	// Raw split on line breaks, Array yields its members, Object yields
	// itself as the sole item.
	Items() []Output
}

// Raw is pre-escaped markup; Render passes it through unchanged.
type Raw string

func (r Raw) Kind() string { return "raw" }
func (r Raw) Str() string  { return string(r) }
func (r Raw) Render() string { return string(r) }
func (r Raw) Items() []Output {
	return splitLines(string(r), func(s string) Output { return Raw(s) })
}

// Text is a plain string, HTML-escaped on render.
type Text string

func (t Text) Kind() string   { return "text" }
func (t Text) Str() string    { return string(t) }
func (t Text) Render() string { return html.EscapeString(string(t)) }
func (t Text) Items() []Output {
	return splitLines(string(t), func(s string) Output { return Text(s) })
}

func splitLines(s string, wrap func(string) Output) []Output {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	items := make([]Output, len(lines))
	for i, l := range lines {
		items[i] = wrap(l)
	}
	return items
}

// Array is an ordered sequence of Output values with an optional layout
// hint, e.g. "multicolumn" for ls-style grids.
type Array struct {
	Values []Output
	Layout string
}

func (a Array) Kind() string { return "array" }

func (a Array) Str() string {
	parts := make([]string, len(a.Values))
	for i, v := range a.Values {
		parts[i] = v.Str()
	}
	return strings.Join(parts, "\n")
}

func (a Array) Render() string {
	var b strings.Builder
	class := "output-array"
	if a.Layout != "" {
		class += " " + a.Layout
	}
	fmt.Fprintf(&b, `<div class="%s">`, class)
	for _, v := range a.Values {
		b.WriteString(v.Render())
	}
	b.WriteString(`</div>`)
	return b.String()
}

func (a Array) Items() []Output {
	return a.Values
}

// Object wraps an opaque value (e.g. a js expression result) and renders
// it via its string form.
type Object struct {
	Value interface{}
}

func (o Object) Kind() string { return "object" }

func (o Object) Str() string {
	if s, ok := o.Value.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(o.Value)
}

func (o Object) Render() string { return html.EscapeString(o.Str()) }

func (o Object) Items() []Output { return []Output{o} }
