package gamification

import "testing"

func TestActivityPoints(t *testing.T) {
	cases := []struct {
		difficulty string
		want       int
	}{
		{"easy", 10},
		{"medium", 25},
		{"hard", 50},
		{"Easy", 10},
		{"HARD", 50},
	}
	for _, c := range cases {
		if got := ActivityPoints(c.difficulty); got != c.want {
			t.Errorf("ActivityPoints(%q) = %d, want %d", c.difficulty, got, c.want)
		}
	}
}

// Unknown difficulty falls back to the easy tier. This is a deliberate
// policy, not an accident: generation validates difficulty up front, so the
// fallback only covers legacy rows.
func TestActivityPointsUnknownDifficultyFallsBack(t *testing.T) {
	for _, difficulty := range []string{"", "extreme", "impossible"} {
		if got := ActivityPoints(difficulty); got != 10 {
			t.Errorf("ActivityPoints(%q) = %d, want easy-tier 10", difficulty, got)
		}
	}
}

func TestQuestPoints(t *testing.T) {
	cases := []struct {
		difficulty string
		want       int
	}{
		{"easy", 100},
		{"medium", 200},
		{"hard", 300},
		{"Medium", 200},
	}
	for _, c := range cases {
		if got := QuestPoints(c.difficulty); got != c.want {
			t.Errorf("QuestPoints(%q) = %d, want %d", c.difficulty, got, c.want)
		}
	}
}

func TestQuestPointsUnknownDifficultyFallsBack(t *testing.T) {
	if got := QuestPoints("legendary"); got != 100 {
		t.Errorf("QuestPoints(legendary) = %d, want easy-tier 100", got)
	}
}
