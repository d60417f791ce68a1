// gamification/levels.go - Named level tiers over cumulative points
package gamification

// levelTier pairs an inclusive point threshold with its tier name.
type levelTier struct {
	Threshold int
	Name      string
}

// Ordered ascending. A total exactly equal to a threshold belongs to that tier.
var levelTiers = []levelTier{
	{0, "Novice Explorer"},
	{100, "Adventure Seeker"},
	{250, "Urban Wanderer"},
	{500, "City Navigator"},
	{1000, "Local Legend"},
}

// LevelForPoints maps a cumulative point total to its tier name.
func LevelForPoints(points int) string {
	for i := len(levelTiers) - 1; i >= 0; i-- {
		if points >= levelTiers[i].Threshold {
			return levelTiers[i].Name
		}
	}
	return levelTiers[0].Name
}
