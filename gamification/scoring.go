// gamification/scoring.go - Fixed point tables for completion rewards
package gamification

import "strings"

// Points awarded for completing a single activity, by difficulty.
var activityPoints = map[string]int{
	"easy":   10,
	"medium": 25,
	"hard":   50,
}

// Points awarded for completing a quest, by difficulty.
var questPoints = map[string]int{
	"easy":   100,
	"medium": 200,
	"hard":   300,
}

// ActivityPoints returns the reward for completing an activity of the given
// difficulty. Unrecognized difficulties fall back to the easy-tier value
// rather than failing; callers validate difficulty at generation time.
func ActivityPoints(difficulty string) int {
	if pts, ok := activityPoints[strings.ToLower(difficulty)]; ok {
		return pts
	}
	return activityPoints["easy"]
}

// QuestPoints returns the reward for completing a quest of the given
// difficulty, with the same easy-tier fallback as ActivityPoints.
// Challenge rewards are not table-driven; they come from generated content.
func QuestPoints(difficulty string) int {
	if pts, ok := questPoints[strings.ToLower(difficulty)]; ok {
		return pts
	}
	return questPoints["easy"]
}
