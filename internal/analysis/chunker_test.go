package analysis

import "testing"

func TestPlanWindows(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  []Window
	}{
		{"zero duration yields a sole empty window", 0, []Window{{0, 0}}},
		{"shorter than one window", 90, []Window{{0, 90}}},
		{"exactly one window", 120, []Window{{0, 120}}},
		{"one second over", 121, []Window{{0, 120}, {120, 121}}},
		{"five minutes", 300, []Window{{0, 120}, {120, 240}, {240, 300}}},
		{"exact multiple", 480, []Window{{0, 120}, {120, 240}, {240, 360}, {360, 480}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PlanWindows(tc.total)
			if len(got) != len(tc.want) {
				t.Fatalf("PlanWindows(%d) produced %d windows, want %d", tc.total, len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("window %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

// Windows must partition [0, total) exactly: contiguous, ordered, no overlap.
func TestPlanWindowsPartition(t *testing.T) {
	for _, total := range []int{1, 119, 120, 121, 300, 3600, 7201} {
		windows := PlanWindows(total)

		if windows[0].Start != 0 {
			t.Errorf("total=%d: first window starts at %d", total, windows[0].Start)
		}
		if last := windows[len(windows)-1]; last.End != total {
			t.Errorf("total=%d: last window ends at %d", total, last.End)
		}
		for i := 1; i < len(windows); i++ {
			if windows[i].Start != windows[i-1].End {
				t.Errorf("total=%d: gap between window %d and %d", total, i-1, i)
			}
		}
		for i, w := range windows {
			if w.Length() <= 0 {
				t.Errorf("total=%d: window %d has non-positive length", total, i)
			}
			if w.Length() > ChunkWindowSeconds {
				t.Errorf("total=%d: window %d longer than %ds", total, i, ChunkWindowSeconds)
			}
		}
	}
}

func TestExpectedScenes(t *testing.T) {
	tests := []struct {
		name string
		w    Window
		want int
	}{
		{"full window", Window{0, 120}, 24},
		{"final fragment", Window{240, 300}, 12},
		{"single second", Window{0, 1}, 1},
		{"non-multiple remainder", Window{0, 7}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExpectedScenes(tc.w); got != tc.want {
				t.Errorf("ExpectedScenes(%+v) = %d, want %d", tc.w, got, tc.want)
			}
		})
	}
}

func TestEstimateSceneCount(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  int
	}{
		{"floor applies to short videos", 30, 10},
		{"floor boundary", 50, 10},
		{"above floor", 55, 11},
		{"five minutes", 300, 60},
		{"zero duration still hits floor", 0, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EstimateSceneCount(tc.total); got != tc.want {
				t.Errorf("EstimateSceneCount(%d) = %d, want %d", tc.total, got, tc.want)
			}
		})
	}
}

// Per-window expectations summed should cover the whole-video estimate once
// the video is long enough for the floor not to apply.
func TestWindowExpectationsCoverEstimate(t *testing.T) {
	total := 300
	sum := 0
	for _, w := range PlanWindows(total) {
		sum += ExpectedScenes(w)
	}
	if est := EstimateSceneCount(total); sum != est {
		t.Errorf("summed window expectations = %d, whole-video estimate = %d", sum, est)
	}
}
