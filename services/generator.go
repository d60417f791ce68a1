// services/generator.go - AI content generation via OpenRouter
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"wanderlust/models"
)

const (
	defaultBaseURL  = "https://openrouter.ai/api/v1"
	defaultModel    = "mistralai/mistral-7b-instruct"
	defaultLocation = "Churchgate, Mumbai"
)

// ErrInvalidArgument marks request-side validation failures (bad category or
// difficulty). Everything else a Generate call returns is an upstream or
// payload failure.
var ErrInvalidArgument = errors.New("invalid argument")

var generationCalls = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "generation_requests_total",
		Help: "Total generation calls by kind and outcome",
	},
	[]string{"kind", "outcome"},
)

// Generator calls the OpenRouter chat completions API and shapes the model's
// JSON output into activity, quest, and challenge records.
type Generator struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewGenerator() *Generator {
	baseURL := os.Getenv("OPENROUTER_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = defaultModel
	}
	return &Generator{
		apiKey:  os.Getenv("OPENROUTER_API_KEY"),
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// GeneratedActivity is the validated shape of a generated activity.
type GeneratedActivity struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    flexInt `json:"duration"`
	Location    string  `json:"location"`
}

// GeneratedQuest is the validated shape of a generated quest.
type GeneratedQuest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Duration    flexInt            `json:"duration"`
	Steps       []models.QuestStep `json:"steps"`
}

// GeneratedChallenge is the validated shape of a generated challenge.
type GeneratedChallenge struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Activities   []models.ChallengeTask `json:"activities"`
	TimeLimit    flexInt                `json:"time_limit"`
	TotalLimit   flexInt                `json:"total_time_limit"`
	PointsReward flexInt                `json:"points_reward"`
}

// GenerateActivity asks the model for a single activity in the given
// category and difficulty.
func (g *Generator) GenerateActivity(category, difficulty string) (*GeneratedActivity, error) {
	prompt, err := activityPrompt(category, difficulty)
	if err != nil {
		return nil, err
	}

	raw, err := g.chat(activitySystemPrompt, prompt, "Wanderlust Adventure Generator")
	if err != nil {
		generationCalls.WithLabelValues("activity", "error").Inc()
		return nil, err
	}

	var activity GeneratedActivity
	if err := unmarshalGenerated(raw, &activity); err != nil {
		generationCalls.WithLabelValues("activity", "error").Inc()
		return nil, err
	}
	if err := requireFields(map[string]bool{
		"title":       activity.Title != "",
		"description": activity.Description != "",
	}); err != nil {
		generationCalls.WithLabelValues("activity", "error").Inc()
		return nil, err
	}

	if activity.Duration == 0 {
		activity.Duration = 60
	}
	if activity.Location == "" {
		activity.Location = defaultLocation
	}

	generationCalls.WithLabelValues("activity", "ok").Inc()
	return &activity, nil
}

// GenerateQuest asks the model for a multi-step quest.
func (g *Generator) GenerateQuest(difficulty string) (*GeneratedQuest, error) {
	prompt, err := questPrompt(difficulty)
	if err != nil {
		return nil, err
	}

	raw, err := g.chat(questSystemPrompt, prompt, "Wanderlust Quest Generator")
	if err != nil {
		generationCalls.WithLabelValues("quest", "error").Inc()
		return nil, err
	}

	var quest GeneratedQuest
	if err := unmarshalGenerated(raw, &quest); err != nil {
		generationCalls.WithLabelValues("quest", "error").Inc()
		return nil, err
	}
	if err := requireFields(map[string]bool{
		"title":       quest.Title != "",
		"description": quest.Description != "",
		"steps":       len(quest.Steps) > 0,
	}); err != nil {
		generationCalls.WithLabelValues("quest", "error").Inc()
		return nil, err
	}

	if quest.Duration == 0 {
		quest.Duration = 120
	}

	generationCalls.WithLabelValues("quest", "ok").Inc()
	return &quest, nil
}

// GenerateChallenge asks the model for a timed multi-task challenge.
func (g *Generator) GenerateChallenge(difficulty string) (*GeneratedChallenge, error) {
	prompt, err := challengePrompt(difficulty)
	if err != nil {
		return nil, err
	}

	raw, err := g.chat(challengeSystemPrompt, prompt, "Wanderlust Challenge Generator")
	if err != nil {
		generationCalls.WithLabelValues("challenge", "error").Inc()
		return nil, err
	}

	var challenge GeneratedChallenge
	if err := unmarshalGenerated(raw, &challenge); err != nil {
		generationCalls.WithLabelValues("challenge", "error").Inc()
		return nil, err
	}
	if err := requireFields(map[string]bool{
		"title":       challenge.Title != "",
		"description": challenge.Description != "",
		"activities":  len(challenge.Activities) > 0,
	}); err != nil {
		generationCalls.WithLabelValues("challenge", "error").Inc()
		return nil, err
	}

	// Some model outputs use total_time_limit, matching the prompt's schema.
	if challenge.TimeLimit == 0 {
		challenge.TimeLimit = challenge.TotalLimit
	}
	if challenge.TimeLimit == 0 {
		challenge.TimeLimit = 120
	}

	// Generated tasks always start incomplete, whatever the model claims.
	for i := range challenge.Activities {
		challenge.Activities[i].Completed = false
		challenge.Activities[i].CompletedAt = nil
	}

	generationCalls.WithLabelValues("challenge", "ok").Inc()
	return &challenge, nil
}

// chat performs one chat-completions round trip and returns the assistant
// message content.
func (g *Generator) chat(systemPrompt, userPrompt, title string) (string, error) {
	reqBody := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature":     0.7,
		"max_tokens":      1000,
		"response_format": map[string]string{"type": "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", "http://localhost:3000")
	req.Header.Set("X-Title", title)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("invalid generation API response: %w", err)
	}
	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
		return "", errors.New("invalid generation API response format")
	}

	return apiResp.Choices[0].Message.Content, nil
}

var embeddedJSON = regexp.MustCompile(`(?s)\{.*\}`)

// unmarshalGenerated parses model output into v. Models occasionally wrap
// the JSON object in prose, so a raw parse failure falls back to extracting
// the first embedded object.
func unmarshalGenerated(raw string, v interface{}) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	match := embeddedJSON.FindString(raw)
	if match == "" {
		return errors.New("could not parse generated content as JSON")
	}
	if err := json.Unmarshal([]byte(match), v); err != nil {
		return fmt.Errorf("could not parse generated content as JSON: %w", err)
	}
	return nil
}

// requireFields reports the missing required fields by name.
func requireFields(present map[string]bool) error {
	var missing []string
	for field, ok := range present {
		if !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	// Stable order for error messages
	sort.Strings(missing)
	return fmt.Errorf("missing required fields in generated content: %s", strings.Join(missing, ", "))
}

// flexInt accepts both JSON numbers and strings like "60 minutes", which
// smaller models emit despite the requested schema.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected number or string, got %s", string(data))
	}

	digits := strings.TrimSpace(s)
	if i := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }); i > 0 {
		digits = digits[:i]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}
