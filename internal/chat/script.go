package chat

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is the canned content of the chat widget.
type Script struct {
	Greeting    string   `yaml:"greeting"`
	Suggestions []string `yaml:"suggestions"`
	Responses   []string `yaml:"responses"`
}

func DefaultScript() Script {
	return Script{
		Greeting: "Hello! I'm your AI Growth Hacking Agent. I can help analyze your campaign performance and suggest optimizations. What would you like to know?",
		Suggestions: []string{
			"Analyze current campaign performance",
			"Suggest new ad variations",
			"Optimize posting schedule",
			"Recommend target audience adjustments",
		},
		Responses: []string{
			"Based on your campaign data, I recommend increasing your CTA urgency. Variants with 'Limited Time' performed 23% better.",
			"I've analyzed your performance metrics. Consider testing emotional appeals - they show 31% higher engagement rates.",
			"Your best performing variant uses bright backgrounds. I suggest creating 2 more variations with similar visual styles.",
			"The data shows your audience responds well to social proof. Try adding customer testimonials to your next variants.",
		},
	}
}

// LoadScript reads a YAML script. Fields left empty keep their defaults.
func LoadScript(path string) (Script, error) {
	script := DefaultScript()
	if path == "" {
		return script, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return script, fmt.Errorf("failed to read chat script: %w", err)
	}

	var override Script
	if err := yaml.Unmarshal(data, &override); err != nil {
		return script, fmt.Errorf("failed to parse chat script: %w", err)
	}

	if override.Greeting != "" {
		script.Greeting = override.Greeting
	}
	if len(override.Suggestions) > 0 {
		script.Suggestions = override.Suggestions
	}
	if len(override.Responses) > 0 {
		script.Responses = override.Responses
	}
	return script, nil
}
