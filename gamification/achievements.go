// gamification/achievements.go - Milestone table over completed-activity counts
package gamification

// Milestone is one named achievement a user can earn by completing
// activities. MinActivities is the inclusive completed-activity count that
// unlocks it.
type Milestone struct {
	Title         string
	Description   string
	Points        int
	MinActivities int
}

var milestones = []Milestone{
	{
		Title:         "Adventure Beginner",
		Description:   "Complete 5 activities",
		Points:        50,
		MinActivities: 5,
	},
	{
		Title:         "Explorer",
		Description:   "Complete 10 activities",
		Points:        100,
		MinActivities: 10,
	},
	{
		Title:         "Wanderlust Master",
		Description:   "Complete 25 activities",
		Points:        250,
		MinActivities: 25,
	},
}

// Milestones returns the full milestone table in unlock order.
func Milestones() []Milestone {
	out := make([]Milestone, len(milestones))
	copy(out, milestones)
	return out
}

// NewlyEarned returns every milestone the count now qualifies for that is not
// already in granted, keyed by title. All qualifying milestones are returned
// in one pass: a user who jumps from 0 to 25 completed activities earns all
// three at once.
func NewlyEarned(completedActivities int, granted map[string]bool) []Milestone {
	var earned []Milestone
	for _, m := range milestones {
		if completedActivities >= m.MinActivities && !granted[m.Title] {
			earned = append(earned, m)
		}
	}
	return earned
}
