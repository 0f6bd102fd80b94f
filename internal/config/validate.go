package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// supportedBrowsers is the closed set accepted for youtube.cookies_browser,
// matching the browsers yt-dlp can extract cookies from.
var supportedBrowsers = []string{
	"brave", "chrome", "chromium", "edge", "firefox", "opera", "safari", "vivaldi",
}

// supportedVoices is the closed set accepted at the configuration level.
// Per-model compatibility is enforced at call time by the speech service.
var supportedVoices = []string{
	"alloy", "ash", "ballad", "cedar", "coral", "echo", "fable",
	"marin", "nova", "onyx", "sage", "shimmer", "verse",
}

var supportedTTSModels = []string{"tts-1", "tts-1-hd"}

// Validate ensures the snapshot is usable. The first violation aborts with
// an error naming the offending field and the violated constraint.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.TimeoutSeconds <= 0 {
		return newValidation("api.timeout_seconds", "must be positive")
	}
	if c.API.MaxRetries < 1 {
		return newValidation("api.max_retries", "must be at least 1")
	}
	if c.API.RateLimit < 1 {
		return newValidation("api.rate_limit", "must be at least 1")
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if c.YouTube.CookiesBrowser != "" && !contains(supportedBrowsers, c.YouTube.CookiesBrowser) {
		return newValidation("youtube.cookies_browser",
			fmt.Sprintf("must be one of %s, got %q", strings.Join(supportedBrowsers, ", "), c.YouTube.CookiesBrowser))
	}
	if c.YouTube.MaxFragmentFailures < 1 || c.YouTube.MaxFragmentFailures > 50 {
		return newValidation("youtube.max_fragment_failures", "must be between 1 and 50")
	}
	if c.YouTube.RetryAttempts < 0 {
		return newValidation("youtube.retry_attempts", "must be >= 0")
	}
	if c.YouTube.TimeoutSeconds <= 0 {
		return newValidation("youtube.timeout_seconds", "must be positive")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if c.Transcription.MaxChunkSizeMB < 5 || c.Transcription.MaxChunkSizeMB > 50 {
		return newValidation("transcription.max_chunk_size_mb", "must be between 5 and 50")
	}
	if c.Transcription.ChunkDurationSeconds <= 0 {
		return newValidation("transcription.chunk_duration_seconds", "must be positive")
	}
	if lang := c.Transcription.Language; lang != "" {
		if len(lang) != 2 {
			return newValidation("transcription.language",
				fmt.Sprintf("must be exactly 2 characters (ISO-639-1), got %q", lang))
		}
		if _, err := language.ParseBase(lang); err != nil {
			return newValidation("transcription.language",
				fmt.Sprintf("unknown language code %q", lang))
		}
	}
	return nil
}

func (c *Config) validateTTS() error {
	if !contains(supportedVoices, c.TTS.Voice) {
		return newValidation("tts.voice",
			fmt.Sprintf("must be one of %s, got %q", strings.Join(supportedVoices, ", "), c.TTS.Voice))
	}
	if !contains(supportedTTSModels, c.TTS.Model) {
		return newValidation("tts.model",
			fmt.Sprintf("must be one of %s, got %q", strings.Join(supportedTTSModels, ", "), c.TTS.Model))
	}
	if c.TTS.Speed < 0.25 || c.TTS.Speed > 4.0 {
		return newValidation("tts.speed", "must be between 0.25 and 4.0")
	}
	return nil
}

func contains(set []string, value string) bool {
	for _, item := range set {
		if item == value {
			return true
		}
	}
	return false
}
