package gamification

import "testing"

func titles(ms []Milestone) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Title
	}
	return out
}

func TestNewlyEarnedAwardsAllCrossedTiersInOnePass(t *testing.T) {
	earned := NewlyEarned(25, map[string]bool{})
	if len(earned) != 3 {
		t.Fatalf("expected 3 milestones at 25 activities, got %v", titles(earned))
	}

	total := 0
	for _, m := range earned {
		total += m.Points
	}
	if total != 400 {
		t.Errorf("expected 400 total points (50+100+250), got %d", total)
	}
}

func TestNewlyEarnedIsIdempotent(t *testing.T) {
	earned := NewlyEarned(10, map[string]bool{
		"Adventure Beginner": true,
		"Explorer":           true,
	})
	if len(earned) != 0 {
		t.Errorf("already-granted milestones must not be re-awarded, got %v", titles(earned))
	}
}

func TestNewlyEarnedThresholds(t *testing.T) {
	cases := []struct {
		count   int
		granted map[string]bool
		want    []string
	}{
		{0, nil, nil},
		{4, nil, nil},
		{5, nil, []string{"Adventure Beginner"}},
		{9, map[string]bool{"Adventure Beginner": true}, nil},
		{10, map[string]bool{"Adventure Beginner": true}, []string{"Explorer"}},
		{25, map[string]bool{"Explorer": true}, []string{"Adventure Beginner", "Wanderlust Master"}},
	}
	for _, c := range cases {
		got := titles(NewlyEarned(c.count, c.granted))
		if len(got) != len(c.want) {
			t.Errorf("NewlyEarned(%d, %v) = %v, want %v", c.count, c.granted, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("NewlyEarned(%d, %v) = %v, want %v", c.count, c.granted, got, c.want)
				break
			}
		}
	}
}
