// services/prompts.go - Prompt tables for the generation API
package services

import "fmt"

const (
	activitySystemPrompt = "You are an expert local guide in Mumbai, specializing in creating personalized adventures. " +
		"Always respond in the exact JSON format requested with these keys: title, description, duration, location"

	questSystemPrompt = "You are an expert local guide in Mumbai. You must ONLY return a JSON object with the exact " +
		"format specified in the prompt. Do not include any other text or explanations."

	challengeSystemPrompt = "You are an expert local guide creating exciting challenges."
)

const activityFormatFooter = "Format the response as JSON with these exact keys: title, description, duration, location"

// activityPrompts is keyed by category, then difficulty.
var activityPrompts = map[string]map[string]string{
	"food": {
		"easy": "Generate a casual dining experience in " + defaultLocation + ". Focus on popular, easily accessible restaurants or cafes with average pricing. Include:\n" +
			"1. Restaurant/cafe name\n2. Type of cuisine\n3. Must-try dishes (2-3 items)\n4. Average cost for two\n5. Exact location\n6. Best time to visit\n7. Duration: 30-60 minutes\n" +
			activityFormatFooter,
		"medium": "Create a food exploration activity in " + defaultLocation + " that includes multiple stops. Consider:\n" +
			"1. 2-3 different eateries\n2. Mix of street food and restaurants\n3. Specific food items to try at each stop\n4. Total budget range\n5. Suggested route\n6. Duration: 1-2 hours\n" +
			activityFormatFooter,
		"hard": "Design a comprehensive food tour in " + defaultLocation + " that includes:\n" +
			"1. 4-5 diverse food establishments\n2. Mix of historic and modern eateries\n3. Special dishes and their history\n4. Cultural significance of each stop\n5. Detailed tasting notes\n6. Duration: 2-3 hours\n" +
			activityFormatFooter,
	},
	"culture": {
		"easy": "Create a simple cultural activity in " + defaultLocation + ". Include:\n" +
			"1. One main cultural site or institution\n2. Its historical significance\n3. Key things to observe\n4. Best time to visit\n5. Duration: 30-60 minutes\n" +
			activityFormatFooter,
		"medium": "Design a cultural exploration in " + defaultLocation + " that includes:\n" +
			"1. 2-3 cultural sites\n2. Historical background\n3. Cultural practices to observe\n4. Photo opportunities\n5. Local customs to be aware of\n6. Duration: 1-2 hours\n" +
			activityFormatFooter,
		"hard": "Create an immersive cultural experience in " + defaultLocation + " covering:\n" +
			"1. Multiple historical sites\n2. Local art and architecture\n3. Cultural workshops or activities\n4. Traditional performances if available\n5. Cultural significance of each location\n6. Duration: 2-3 hours\n" +
			activityFormatFooter,
	},
	"adventure": {
		"easy": "Design a light adventure activity in " + defaultLocation + ". Include:\n" +
			"1. One main location or activity\n2. Required preparation\n3. Safety considerations\n4. Best time to do it\n5. Duration: 30-60 minutes\n" +
			activityFormatFooter,
		"medium": "Create an engaging adventure in " + defaultLocation + " that includes:\n" +
			"1. 2-3 different activities\n2. Required equipment or preparation\n3. Physical requirements\n4. Safety guidelines\n5. Alternative options\n6. Duration: 1-2 hours\n" +
			activityFormatFooter,
		"hard": "Design a challenging adventure experience in " + defaultLocation + " that involves:\n" +
			"1. Multiple challenging activities\n2. Detailed preparation requirements\n3. Physical fitness needs\n4. Safety protocols\n5. Emergency contacts\n6. Duration: 2-3 hours\n" +
			activityFormatFooter,
	},
}

// questStepCounts and durations scale with difficulty.
var questPrompts = map[string]string{
	"easy": `Create a beginner-friendly quest in ` + defaultLocation + ` with 3 connected steps.
Return ONLY a JSON object with this exact format:
{
    "title": "Quest title here",
    "description": "Overall quest description here",
    "duration": 90,
    "steps": [
        {"title": "Step 1 title", "description": "Step 1 description"},
        {"title": "Step 2 title", "description": "Step 2 description"},
        {"title": "Step 3 title", "description": "Step 3 description"}
    ]
}

The quest should:
1. Take 1-2 hours total
2. Include easy-to-find locations
3. Mix of activities (e.g., food, sightseeing)
4. Be suitable for any time of day`,

	"medium": `Design a moderate quest in ` + defaultLocation + ` with 4 connected steps.
Return ONLY a JSON object with this exact format:
{
    "title": "Quest title here",
    "description": "Overall quest description here",
    "duration": 150,
    "steps": [
        {"title": "Step 1 title", "description": "Step 1 description"},
        {"title": "Step 2 title", "description": "Step 2 description"},
        {"title": "Step 3 title", "description": "Step 3 description"},
        {"title": "Step 4 title", "description": "Step 4 description"}
    ]
}

The quest should:
1. Take 2-3 hours total
2. Include some lesser-known spots
3. Mix of activities and challenges
4. Consider time of day for activities`,

	"hard": `Create a challenging quest in ` + defaultLocation + ` with 5 connected steps.
Return ONLY a JSON object with this exact format:
{
    "title": "Quest title here",
    "description": "Overall quest description here",
    "duration": 210,
    "steps": [
        {"title": "Step 1 title", "description": "Step 1 description"},
        {"title": "Step 2 title", "description": "Step 2 description"},
        {"title": "Step 3 title", "description": "Step 3 description"},
        {"title": "Step 4 title", "description": "Step 4 description"},
        {"title": "Step 5 title", "description": "Step 5 description"}
    ]
}

The quest should:
1. Take 3-4 hours total
2. Include hidden gems and local secrets
3. Complex mix of activities and challenges
4. Strategic planning of timing and routes`,
}

const challengeBasePrompt = `Create an exciting mini-adventure challenge with multiple related activities.
Format the response as a JSON object with the following structure:
{
    "title": "Challenge title",
    "description": "Overall challenge description",
    "activities": [
        {
            "description": "Activity description",
            "time_limit": minutes_to_complete,
            "completed": false,
            "points": points_for_activity
        }
    ],
    "total_time_limit": total_minutes,
    "points_reward": total_points
}`

var challengeModifiers = map[string]string{
	"easy":   "3-4 simple activities, 15-30 minutes each, total time 2 hours",
	"medium": "4-5 moderate activities, 30-45 minutes each, total time 3 hours",
	"hard":   "5-6 challenging activities, 45-60 minutes each, total time 4 hours",
}

func activityPrompt(category, difficulty string) (string, error) {
	byDifficulty, ok := activityPrompts[category]
	if !ok {
		return "", fmt.Errorf("%w: invalid category %q, must be one of: food, culture, adventure", ErrInvalidArgument, category)
	}
	prompt, ok := byDifficulty[difficulty]
	if !ok {
		return "", fmt.Errorf("%w: invalid difficulty %q, must be one of: easy, medium, hard", ErrInvalidArgument, difficulty)
	}
	return prompt, nil
}

func questPrompt(difficulty string) (string, error) {
	prompt, ok := questPrompts[difficulty]
	if !ok {
		return "", fmt.Errorf("%w: invalid difficulty %q, must be one of: easy, medium, hard", ErrInvalidArgument, difficulty)
	}
	return prompt, nil
}

func challengePrompt(difficulty string) (string, error) {
	modifier, ok := challengeModifiers[difficulty]
	if !ok {
		return "", fmt.Errorf("%w: invalid difficulty %q, must be one of: easy, medium, hard", ErrInvalidArgument, difficulty)
	}
	return fmt.Sprintf("%s\n\nDifficulty level: %s", challengeBasePrompt, modifier), nil
}
