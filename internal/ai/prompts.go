package ai

import "fmt"

const (
	adCopySystemPrompt     = "You are an expert copywriter specializing in social media ads. Generate compelling ad copy that converts."
	suggestionSystemPrompt = "You are a performance marketing expert analyzing ad performance data to provide optimization suggestions."
)

func adCopyPrompt(productName string) string {
	return fmt.Sprintf(`Generate 3 different ad copy variations for a product called %q. Each should include:
1. A catchy headline (max 8 words)
2. Body text (max 125 characters for social media)
3. A strong call-to-action

Focus on different angles: emotional appeal, problem-solving, and social proof.
Return as JSON array with objects containing: headline, body, cta, angle`, productName)
}

func suggestionPrompt(performanceJSON string) string {
	return fmt.Sprintf(`Analyze this ad performance data and provide 3 specific optimization suggestions:
%s

Return as JSON array with objects containing: suggestion, reasoning, impact_level (high/medium/low)`, performanceJSON)
}
