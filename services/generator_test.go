package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeCompletions returns a test server answering every chat completion with
// the given assistant message content.
func fakeCompletions(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func testGenerator(baseURL string) *Generator {
	return &Generator{
		apiKey:  "test-key",
		baseURL: baseURL,
		model:   defaultModel,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGenerateActivityParsesWellFormedJSON(t *testing.T) {
	srv := fakeCompletions(t, `{"title":"Street Food Crawl","description":"Eat your way down Marine Drive","duration":45,"location":"Marine Drive"}`)
	defer srv.Close()

	activity, err := testGenerator(srv.URL).GenerateActivity("food", "easy")
	if err != nil {
		t.Fatalf("GenerateActivity returned error: %v", err)
	}
	if activity.Title != "Street Food Crawl" {
		t.Errorf("unexpected title %q", activity.Title)
	}
	if int(activity.Duration) != 45 {
		t.Errorf("expected duration 45, got %d", activity.Duration)
	}
}

func TestGenerateActivityExtractsEmbeddedJSON(t *testing.T) {
	srv := fakeCompletions(t, "Here is your adventure!\n"+
		`{"title":"Gallery Walk","description":"Visit the Jehangir Art Gallery","duration":"60 minutes"}`+
		"\nEnjoy!")
	defer srv.Close()

	activity, err := testGenerator(srv.URL).GenerateActivity("culture", "easy")
	if err != nil {
		t.Fatalf("GenerateActivity returned error: %v", err)
	}
	if activity.Title != "Gallery Walk" {
		t.Errorf("unexpected title %q", activity.Title)
	}
	if int(activity.Duration) != 60 {
		t.Errorf("expected duration parsed from %q, got %d", "60 minutes", activity.Duration)
	}
}

func TestGenerateActivityDefaultsDurationAndLocation(t *testing.T) {
	srv := fakeCompletions(t, `{"title":"Sunrise Jog","description":"Jog along the promenade"}`)
	defer srv.Close()

	activity, err := testGenerator(srv.URL).GenerateActivity("adventure", "easy")
	if err != nil {
		t.Fatalf("GenerateActivity returned error: %v", err)
	}
	if int(activity.Duration) != 60 {
		t.Errorf("expected default duration 60, got %d", activity.Duration)
	}
	if activity.Location != defaultLocation {
		t.Errorf("expected default location, got %q", activity.Location)
	}
}

func TestGenerateActivityReportsMissingFields(t *testing.T) {
	srv := fakeCompletions(t, `{"duration":30}`)
	defer srv.Close()

	_, err := testGenerator(srv.URL).GenerateActivity("food", "easy")
	if err == nil {
		t.Fatal("expected error for missing title and description")
	}
	if !strings.Contains(err.Error(), "description") || !strings.Contains(err.Error(), "title") {
		t.Errorf("error should name the missing fields, got: %v", err)
	}
}

func TestGenerateActivityRejectsInvalidCategory(t *testing.T) {
	_, err := testGenerator("http://127.0.0.1:1").GenerateActivity("shopping", "easy")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestGenerateActivityRejectsInvalidDifficulty(t *testing.T) {
	_, err := testGenerator("http://127.0.0.1:1").GenerateActivity("food", "extreme")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestGenerateActivityUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testGenerator(srv.URL).GenerateActivity("food", "easy")
	if err == nil {
		t.Fatal("expected error on non-200 upstream status")
	}
	if errors.Is(err, ErrInvalidArgument) {
		t.Error("upstream failure must not be classified as a validation error")
	}
}

func TestGenerateActivityGarbageContent(t *testing.T) {
	srv := fakeCompletions(t, "I'm sorry, I can't produce JSON today.")
	defer srv.Close()

	_, err := testGenerator(srv.URL).GenerateActivity("food", "easy")
	if err == nil {
		t.Fatal("expected error for non-JSON content with no embedded object")
	}
}

func TestGenerateQuestRequiresSteps(t *testing.T) {
	srv := fakeCompletions(t, `{"title":"Heritage Hunt","description":"A walk through Fort"}`)
	defer srv.Close()

	_, err := testGenerator(srv.URL).GenerateQuest("easy")
	if err == nil || !strings.Contains(err.Error(), "steps") {
		t.Fatalf("expected missing-steps error, got: %v", err)
	}
}

func TestGenerateQuestParsesSteps(t *testing.T) {
	srv := fakeCompletions(t, `{
		"title": "Heritage Hunt",
		"description": "A walk through Fort",
		"duration": 90,
		"steps": [
			{"title": "Start", "description": "Meet at Flora Fountain"},
			{"title": "Explore", "description": "Walk to Horniman Circle"},
			{"title": "Finish", "description": "Coffee at an Irani cafe"}
		]
	}`)
	defer srv.Close()

	quest, err := testGenerator(srv.URL).GenerateQuest("easy")
	if err != nil {
		t.Fatalf("GenerateQuest returned error: %v", err)
	}
	if len(quest.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(quest.Steps))
	}
	if quest.Steps[0].Title != "Start" {
		t.Errorf("steps must preserve order, first step %q", quest.Steps[0].Title)
	}
}

func TestGenerateChallengeResetsTaskCompletion(t *testing.T) {
	srv := fakeCompletions(t, `{
		"title": "Bazaar Dash",
		"description": "Race through three markets",
		"activities": [
			{"description": "Buy spices at Crawford Market", "time_limit": 30, "points": 20, "completed": true},
			{"description": "Find a vintage poster", "time_limit": 30, "points": 30}
		],
		"total_time_limit": 120,
		"points_reward": 150
	}`)
	defer srv.Close()

	challenge, err := testGenerator(srv.URL).GenerateChallenge("medium")
	if err != nil {
		t.Fatalf("GenerateChallenge returned error: %v", err)
	}
	if int(challenge.TimeLimit) != 120 {
		t.Errorf("expected time limit from total_time_limit, got %d", challenge.TimeLimit)
	}
	if int(challenge.PointsReward) != 150 {
		t.Errorf("expected points reward 150, got %d", challenge.PointsReward)
	}
	for i, task := range challenge.Activities {
		if task.Completed {
			t.Errorf("task %d must start incomplete regardless of model output", i)
		}
	}
}

func TestGenerateChallengeDefaultsTimeLimit(t *testing.T) {
	srv := fakeCompletions(t, `{
		"title": "Quick Dash",
		"description": "One stop",
		"activities": [{"description": "Visit the clock tower", "time_limit": 20, "points": 10}]
	}`)
	defer srv.Close()

	challenge, err := testGenerator(srv.URL).GenerateChallenge("easy")
	if err != nil {
		t.Fatalf("GenerateChallenge returned error: %v", err)
	}
	if int(challenge.TimeLimit) != 120 {
		t.Errorf("expected default time limit 120, got %d", challenge.TimeLimit)
	}
}

func TestChallengePromptRejectsUnknownDifficulty(t *testing.T) {
	if _, err := challengePrompt("nightmare"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
