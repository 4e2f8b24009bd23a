package analysis

import (
	"strings"
	"testing"
)

func TestRunMode(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"defaults to full", Options{}, "full"},
		{"summary duration selects summary", Options{SummaryDuration: 60}, "summary"},
		{"variation prompt selects variation", Options{VariationPrompt: "noir"}, "variation"},
		{"variation wins over summary", Options{VariationPrompt: "noir", SummaryDuration: 60}, "variation"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := runMode(tc.opts); got != tc.want {
				t.Errorf("runMode = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildOutlinePrompt(t *testing.T) {
	meta := testMeta(300)

	prompt := buildOutlinePrompt(meta, Options{Style: "watercolor"}, 300)

	for _, want := range []string{"Meadow Walk", "05:00", "6 to 8 parts", "start at 00:00", "watercolor"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("outline prompt missing %q", want)
		}
	}
}

func TestBuildChunkPrompt(t *testing.T) {
	outline := testOutline()
	w := Window{Start: 120, End: 240}

	prompt := buildChunkPrompt(testMeta(300), Options{VariationPrompt: "as a silent film"}, &outline, w, 24, 1, 3)

	for _, want := range []string{
		"Segment 2 of 3",
		"02:00 to 04:00",
		"exactly 24 scenes",
		"The Field Guide",
		"as a silent film",
		"focal_point",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("chunk prompt missing %q", want)
		}
	}
}
