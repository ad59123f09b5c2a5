package loop

// Progress records the number of passing tasks observed after an
// iteration. Iteration 0 is the count before the first invocation.
type Progress struct {
	Iteration      int
	TasksCompleted int
}

// DetectStuck checks if the loop is stuck by analyzing history.
// A loop is considered stuck if tasks_completed hasn't changed across
// the last N entries where N is the threshold.
func DetectStuck(history []Progress, threshold int) bool {
	if threshold <= 0 || len(history) < threshold {
		return false
	}

	recent := history[len(history)-threshold:]

	first := recent[0].TasksCompleted
	for _, entry := range recent[1:] {
		if entry.TasksCompleted != first {
			return false
		}
	}

	return true
}

// Stalled reports whether the last iterations iterations made no progress.
// history must start with the iteration 0 baseline.
func Stalled(history []Progress, iterations int) bool {
	if iterations <= 0 {
		return false
	}
	return DetectStuck(history, iterations+1)
}

// ProgressRate calculates the completion rate over recent history.
// Returns tasks completed per iteration (averaged over the window).
func ProgressRate(history []Progress, window int) float64 {
	if len(history) < 2 {
		return 0
	}

	if window > len(history) {
		window = len(history)
	}

	recent := history[len(history)-window:]
	if len(recent) < 2 {
		return 0
	}

	start := recent[0].TasksCompleted
	end := recent[len(recent)-1].TasksCompleted
	return float64(end-start) / float64(len(recent)-1)
}
