package output

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTextItemsRoundTrip(t *testing.T) {
	s := "a\nb\nc"
	items := Text(s).Items()
	var got []string
	for _, it := range items {
		got = append(got, it.Str())
	}
	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}
}

func TestArrayItemsRoundTrip(t *testing.T) {
	in := []Output{Text("a"), Text("b")}
	arr := Array{Values: in}
	if diff := cmp.Diff(in, arr.Items()); diff != "" {
		t.Errorf("Array.Items() mismatch (-want +got):\n%s", diff)
	}
}

func TestTextRenderEscapes(t *testing.T) {
	got := Text("<b>").Render()
	want := "&lt;b&gt;"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRawRenderPassthrough(t *testing.T) {
	got := Raw("<b>x</b>").Render()
	if got != "<b>x</b>" {
		t.Errorf("Render() = %q, want passthrough", got)
	}
}

func TestObjectStrFormatsValue(t *testing.T) {
	o := Object{Value: 42}
	if o.Str() != "42" {
		t.Errorf("Str() = %q, want 42", o.Str())
	}
}

func TestArrayStrJoinsMembers(t *testing.T) {
	arr := Array{Values: []Output{Text("a"), Text("ab")}}
	if got, want := arr.Str(), "a\nab"; got != want {
		t.Errorf("Str() = %q, want %q", got, want)
	}
}
