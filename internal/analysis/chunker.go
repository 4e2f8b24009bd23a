package analysis

const (
	// ChunkWindowSeconds is the fixed time-slice width each model request
	// covers.
	ChunkWindowSeconds = 120

	// SceneDensitySeconds is the target seconds-per-scene used to size
	// expected scene counts.
	SceneDensitySeconds = 5

	// MinSceneEstimate floors the first-pass estimate shown before chunking.
	MinSceneEstimate = 10
)

// Window is one contiguous [Start, End) slice of the target duration.
type Window struct {
	Start int
	End   int
}

func (w Window) Length() int {
	return w.End - w.Start
}

// PlanWindows partitions [0, total) into ceil(total/window) contiguous
// windows. A zero-length window survives only when it is the sole window.
func PlanWindows(total int) []Window {
	if total < 0 {
		total = 0
	}

	n := (total + ChunkWindowSeconds - 1) / ChunkWindowSeconds
	if n == 0 {
		n = 1
	}

	windows := make([]Window, 0, n)
	for i := 0; i < n; i++ {
		start := i * ChunkWindowSeconds
		end := start + ChunkWindowSeconds
		if end > total {
			end = total
		}
		windows = append(windows, Window{Start: start, End: end})
	}
	return windows
}

// ExpectedScenes is the per-window scene count the model is asked for.
func ExpectedScenes(w Window) int {
	return ceilDiv(w.Length(), SceneDensitySeconds)
}

// EstimateSceneCount is the first-pass whole-video estimate surfaced to the
// user before chunking starts.
func EstimateSceneCount(total int) int {
	est := ceilDiv(total, SceneDensitySeconds)
	if est < MinSceneEstimate {
		return MinSceneEstimate
	}
	return est
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
