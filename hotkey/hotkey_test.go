package hotkey

import (
	"reflect"
	"testing"
)

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Ctrl+Alt+V", []string{"ctrl", "alt", "v"}},
		{"ctrl+alt+b", []string{"ctrl", "alt", "b"}},
		{"CTRL + ALT + X", []string{"ctrl", "alt", "x"}},
		{"Win+Shift+S", []string{"cmd", "shift", "s"}},
		{"Super+Q", []string{"cmd", "q"}},
		{"F12", []string{"f12"}},
		{"ctrl++v", []string{"ctrl", "v"}},
		{"", nil},
		{"  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseHotkey(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("parseHotkey(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestKeyNameToRawcodes(t *testing.T) {
	tests := []struct {
		name     string
		expected []uint16
	}{
		{"ctrl", []uint16{162, 163}},
		{"alt", []uint16{164, 165}},
		{"shift", []uint16{160, 161}},
		{"cmd", []uint16{91, 92}},
		{"a", []uint16{65}},
		{"z", []uint16{90}},
		{"v", []uint16{86}},
		{"0", []uint16{48}},
		{"9", []uint16{57}},
		{"f1", []uint16{112}},
		{"f12", []uint16{123}},
		{"f24", []uint16{135}},
		{"space", []uint16{32}},
		{"enter", []uint16{13}},
		{"esc", []uint16{27}},
		{"  Ctrl  ", []uint16{162, 163}},
		{"f25", nil},
		{"f0", nil},
		{"unknown", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keyNameToRawcodes(tt.name)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("keyNameToRawcodes(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestComboHandle(t *testing.T) {
	c, err := newCombo(Binding{Combo: "Ctrl+Alt+V"})
	if err != nil {
		t.Fatalf("newCombo: %v", err)
	}

	// Partial press never fires.
	if c.handle(true, 162) {
		t.Error("fired on ctrl alone")
	}
	if c.handle(true, 164) {
		t.Error("fired on ctrl+alt")
	}
	if !c.handle(true, 86) {
		t.Error("did not fire on ctrl+alt+v")
	}
	// State resets on completion: repeating the last key alone must not refire.
	if c.handle(true, 86) {
		t.Error("refired without modifiers held")
	}

	// Right-side modifier variants work too.
	c2, err := newCombo(Binding{Combo: "Ctrl+Alt+B"})
	if err != nil {
		t.Fatalf("newCombo: %v", err)
	}
	c2.handle(true, 163)
	c2.handle(true, 165)
	if !c2.handle(true, 66) {
		t.Error("right-side modifiers did not complete combo")
	}

	// Releasing a key breaks the chord.
	c3, err := newCombo(Binding{Combo: "Ctrl+Alt+X"})
	if err != nil {
		t.Fatalf("newCombo: %v", err)
	}
	c3.handle(true, 162)
	c3.handle(false, 162)
	c3.handle(true, 164)
	if c3.handle(true, 88) {
		t.Error("fired after ctrl was released")
	}
}

func TestNewComboRejectsUnknownKeys(t *testing.T) {
	if _, err := newCombo(Binding{Combo: "Ctrl+Bogus"}); err == nil {
		t.Error("expected error for unmappable key")
	}
	if _, err := newCombo(Binding{Combo: ""}); err == nil {
		t.Error("expected error for empty combo")
	}
}
