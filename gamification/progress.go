// gamification/progress.go - Challenge task progress accounting
package gamification

// Progress returns the completed fraction of an ordered task list, in [0, 1].
// An empty list reports 0 progress.
func Progress(done []bool) float64 {
	if len(done) == 0 {
		return 0
	}
	completed := 0
	for _, d := range done {
		if d {
			completed++
		}
	}
	return float64(completed) / float64(len(done))
}

// AllComplete reports whether every task is done. An empty list is never
// complete, so a challenge with no tasks cannot self-complete.
func AllComplete(done []bool) bool {
	if len(done) == 0 {
		return false
	}
	for _, d := range done {
		if !d {
			return false
		}
	}
	return true
}
