package input

import (
	"testing"

	"github.com/Faultbox/stlsort/internal/orientation"
)

func TestTranslate(t *testing.T) {
	km := NewKeymap([]string{"w", "A", "S", "D"})

	tests := []struct {
		name string
		in   RawEvent
		want Action
	}{
		{"classify lower binding", RawEvent{Type: RawKeyDown, Key: "W"}, Action{Kind: Classify, Key: "W"}},
		{"classify lower key name", RawEvent{Type: RawKeyDown, Key: "a"}, Action{Kind: Classify, Key: "A"}},
		{"classify repeat ignored", RawEvent{Type: RawKeyDown, Key: "S", Repeat: true}, Action{Kind: Unknown}},
		{"unbound key", RawEvent{Type: RawKeyDown, Key: "X"}, Action{Kind: Unknown}},
		{"left arrow", RawEvent{Type: RawKeyDown, Key: "Left"}, Action{Kind: Rotate, Dir: orientation.DirLeft}},
		{"right arrow repeat", RawEvent{Type: RawKeyDown, Key: "Right", Repeat: true}, Action{Kind: Rotate, Dir: orientation.DirRight}},
		{"up arrow", RawEvent{Type: RawKeyDown, Key: "Up"}, Action{Kind: Rotate, Dir: orientation.DirUp}},
		{"down arrow", RawEvent{Type: RawKeyDown, Key: "Down"}, Action{Kind: Rotate, Dir: orientation.DirDown}},
		{"pause", RawEvent{Type: RawKeyDown, Key: "P"}, Action{Kind: Pause}},
		{"pause repeat ignored", RawEvent{Type: RawKeyDown, Key: "P", Repeat: true}, Action{Kind: Unknown}},
		{"quit", RawEvent{Type: RawKeyDown, Key: "Q"}, Action{Kind: Quit}},
		{"escape", RawEvent{Type: RawKeyDown, Key: "Escape"}, Action{Kind: Quit}},
		{"ctrl c", RawEvent{Type: RawKeyDown, Key: "C", Ctrl: true}, Action{Kind: Quit}},
		{"plain c", RawEvent{Type: RawKeyDown, Key: "C"}, Action{Kind: Unknown}},
		{"screenshot", RawEvent{Type: RawKeyDown, Key: "F12"}, Action{Kind: Screenshot}},
		{"zoom in key", RawEvent{Type: RawKeyDown, Key: "="}, Action{Kind: Zoom, Delta: -1}},
		{"zoom out key", RawEvent{Type: RawKeyDown, Key: "-"}, Action{Kind: Zoom, Delta: 1}},
		{"wheel up", RawEvent{Type: RawWheel, WheelY: 2}, Action{Kind: Zoom, Delta: -2}},
		{"wheel zero", RawEvent{Type: RawWheel}, Action{Kind: Unknown}},
		{"drag", RawEvent{Type: RawMouseMotion, DX: 3, DY: -4, Held: true}, Action{Kind: Drag, DX: 3, DY: -4}},
		{"hover", RawEvent{Type: RawMouseMotion, DX: 3}, Action{Kind: Unknown}},
		{"window close", RawEvent{Type: RawClose}, Action{Kind: Quit}},
		{"resize", RawEvent{Type: RawResize, Width: 800, Height: 600}, Action{Kind: Resize, Width: 800, Height: 600}},
		{"none", RawEvent{}, Action{Kind: Unknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := km.Translate(tt.in)
			if got != tt.want {
				t.Errorf("Translate(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestReserved(t *testing.T) {
	for _, k := range []string{"p", "Q", "Escape", "F12", "left", "=", "-"} {
		if !Reserved(k) {
			t.Errorf("%q should be reserved", k)
		}
	}
	for _, k := range []string{"W", "A", "1", "C"} {
		if Reserved(k) {
			t.Errorf("%q should not be reserved", k)
		}
	}
}

func TestKindString(t *testing.T) {
	if Classify.String() != "classify" {
		t.Errorf("Classify.String() = %q", Classify.String())
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("out of range kind = %q", Kind(99).String())
	}
}
