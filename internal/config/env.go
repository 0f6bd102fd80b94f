package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// loadDotEnv loads a .env file from the current working directory into the
// process environment. godotenv never overrides variables that are already
// set, which gives real environment variables precedence over the file.
func loadDotEnv() {
	_ = godotenv.Load()
}

// applyEnv overlays SECTION__FIELD environment variables onto the snapshot.
// The overlay runs after file decoding, so environment values win over
// config-file values.
func (c *Config) applyEnv() error {
	setString("API__OPENAI_BASE_URL", &c.API.OpenAIBaseURL)
	if raw, ok := os.LookupEnv("API__OPENAI_API_KEY"); ok {
		c.API.OpenAIAPIKey = NewSecret(raw)
	}
	if err := setInt("API__TIMEOUT_SECONDS", &c.API.TimeoutSeconds); err != nil {
		return err
	}
	if err := setInt("API__MAX_RETRIES", &c.API.MaxRetries); err != nil {
		return err
	}
	if err := setInt("API__RATE_LIMIT", &c.API.RateLimit); err != nil {
		return err
	}

	setString("YOUTUBE__COOKIES_BROWSER", &c.YouTube.CookiesBrowser)
	setString("YOUTUBE__COOKIES_FILE", &c.YouTube.CookiesFile)
	if err := setInt("YOUTUBE__MAX_FRAGMENT_FAILURES", &c.YouTube.MaxFragmentFailures); err != nil {
		return err
	}
	if err := setInt("YOUTUBE__RETRY_ATTEMPTS", &c.YouTube.RetryAttempts); err != nil {
		return err
	}
	if err := setInt("YOUTUBE__TIMEOUT_SECONDS", &c.YouTube.TimeoutSeconds); err != nil {
		return err
	}

	if err := setBool("TRANSCRIPTION__AUTO_CHUNK", &c.Transcription.AutoChunk); err != nil {
		return err
	}
	if err := setInt("TRANSCRIPTION__MAX_CHUNK_SIZE_MB", &c.Transcription.MaxChunkSizeMB); err != nil {
		return err
	}
	if err := setInt("TRANSCRIPTION__CHUNK_DURATION_SECONDS", &c.Transcription.ChunkDurationSeconds); err != nil {
		return err
	}
	setString("TRANSCRIPTION__LANGUAGE", &c.Transcription.Language)
	if err := setBool("TRANSCRIPTION__SAVE_INTERMEDIATE", &c.Transcription.SaveIntermediate); err != nil {
		return err
	}

	setString("TTS__VOICE", &c.TTS.Voice)
	setString("TTS__MODEL", &c.TTS.Model)
	if err := setFloat("TTS__SPEED", &c.TTS.Speed); err != nil {
		return err
	}

	setString("WORKFLOW__OUTPUT_DIR", &c.Workflow.OutputDir)
	if err := setBool("WORKFLOW__SAVE_STATE", &c.Workflow.SaveState); err != nil {
		return err
	}
	if err := setBool("WORKFLOW__PARALLEL_EXECUTION", &c.Workflow.ParallelExecution); err != nil {
		return err
	}
	if err := setBool("WORKFLOW__FAIL_FAST", &c.Workflow.FailFast); err != nil {
		return err
	}
	return nil
}

func setString(key string, dst *string) {
	if raw, ok := os.LookupEnv(key); ok {
		*dst = raw
	}
}

func setInt(key string, dst *int) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return newValidation(key, "must be an integer, got "+strconv.Quote(raw))
	}
	*dst = parsed
	return nil
}

func setFloat(key string, dst *float64) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return newValidation(key, "must be a number, got "+strconv.Quote(raw))
	}
	*dst = parsed
	return nil
}

func setBool(key string, dst *bool) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return newValidation(key, "must be a boolean, got "+strconv.Quote(raw))
	}
	*dst = parsed
	return nil
}
