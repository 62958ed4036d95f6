package sentiment

import "fmt"

const promptTemplate = `You are a relationship and sentiment analysis engine.
Your goal is to evaluate the relationship dynamics between two individuals
based solely on their communication.

Focus only on interpersonal cues: trust, engagement, satisfaction,
commitment, cooperation, and overall relationship health.

Analyze sentiment as positive, neutral, or negative based strictly on tone,
wording, and context. Compare the current communication with past interactions
to identify improvement, decline, or stability.

Always return ONLY valid JSON with no extra text.

Past Status: "%s"
Past Summary: "%s"

Current Text: "%s"

Return JSON with:
- "past_status": "strong", "weak", "inconsistent", or "none"
- "current_status": "strong", "weak", or "inconsistent"
- "relationship_trend": "improving", "declining", or "stable"
- "sentiment_score": floating-point value strictly between 0.0 (very negative) and 1.0 (very positive)
- "sentiment": "positive", "neutral", or "negative"
- "communication_clarity": "clear", "ambiguous", or "confused"
- "response_pattern": "balanced", "one-sided", or "avoidant"
- "key_notes": ["bullet point 1", "bullet point 2", "bullet point 3"]`

// buildPrompt renders the relationship-analysis prompt for a block of
// communication text, anchored to the customer's previous sentiment state.
func buildPrompt(comments, pastSummary, pastStatus string) string {
	if pastStatus == "" {
		pastStatus = "none"
	}
	if pastSummary == "" {
		pastSummary = "No previous summary available."
	}
	return fmt.Sprintf(promptTemplate, pastStatus, pastSummary, comments)
}
