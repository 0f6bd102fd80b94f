package config

import (
	"fmt"
	"strings"
)

// normalize trims, lowercases, and expands fields before validation. No
// field ever stores a tilde-prefixed path after this step.
func (c *Config) normalize() error {
	c.API.OpenAIBaseURL = strings.TrimSpace(c.API.OpenAIBaseURL)

	c.YouTube.CookiesBrowser = strings.ToLower(strings.TrimSpace(c.YouTube.CookiesBrowser))
	if strings.TrimSpace(c.YouTube.CookiesFile) != "" {
		expanded, err := expandPath(strings.TrimSpace(c.YouTube.CookiesFile))
		if err != nil {
			return fmt.Errorf("youtube.cookies_file: %w", err)
		}
		c.YouTube.CookiesFile = expanded
	} else {
		c.YouTube.CookiesFile = ""
	}

	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))

	c.TTS.Voice = strings.ToLower(strings.TrimSpace(c.TTS.Voice))
	c.TTS.Model = strings.ToLower(strings.TrimSpace(c.TTS.Model))

	outputDir := strings.TrimSpace(c.Workflow.OutputDir)
	if outputDir == "" {
		outputDir = defaultWorkflowOutputDir
	}
	expanded, err := expandPath(outputDir)
	if err != nil {
		return fmt.Errorf("workflow.output_dir: %w", err)
	}
	c.Workflow.OutputDir = expanded
	return nil
}
