package main

import (
	"strings"
	"testing"

	"github.com/sehmus-akcakale/SnapLearn/vision"
)

func TestValidatePNG(t *testing.T) {
	pngMagic := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{"valid magic", append(pngMagic, 0x00, 0x00), false},
		{"magic only", pngMagic, false},
		{"jpeg magic", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0}, true},
		{"truncated", pngMagic[:4], true},
		{"empty", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePNG(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("validatePNG() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatText(t *testing.T) {
	a := vision.Analysis{
		Summary: "The slide explains TCP congestion control.",
		Question: vision.Question{
			Prompt:  "Which algorithm halves the window on loss?",
			Options: []string{"Slow start", "AIMD", "Fast open", "Nagle"},
			Correct: 1,
		},
	}

	out := formatText(a)
	for _, want := range []string{
		"Summary:\nThe slide explains TCP congestion control.",
		"Question:\nWhich algorithm halves the window on loss?",
		"A) Slow start",
		"B) AIMD",
		"D) Nagle",
		"Correct Answer: B",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("formatText output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTextNoCorrectAnswer(t *testing.T) {
	a := vision.Analysis{
		Summary: "Summary.",
		Question: vision.Question{
			Prompt:  "Q?",
			Options: []string{"one", "two"},
			Correct: -1,
		},
	}
	if out := formatText(a); strings.Contains(out, "Correct Answer") {
		t.Errorf("unexpected correct answer line:\n%s", out)
	}
}
