package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sample_config.yaml
var sampleConfig string

// API contains provider connection settings.
type API struct {
	OpenAIAPIKey   Secret `yaml:"openai_api_key" json:"openai_api_key"`
	OpenAIBaseURL  string `yaml:"openai_base_url,omitempty" json:"openai_base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries" json:"max_retries"`
	RateLimit      int    `yaml:"rate_limit" json:"rate_limit"`
}

// YouTube contains settings for video download helpers.
type YouTube struct {
	CookiesBrowser      string `yaml:"cookies_browser,omitempty" json:"cookies_browser,omitempty"`
	CookiesFile         string `yaml:"cookies_file,omitempty" json:"cookies_file,omitempty"`
	MaxFragmentFailures int    `yaml:"max_fragment_failures" json:"max_fragment_failures"`
	RetryAttempts       int    `yaml:"retry_attempts" json:"retry_attempts"`
	TimeoutSeconds      int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Transcription contains audio transcription settings.
type Transcription struct {
	AutoChunk            bool   `yaml:"auto_chunk" json:"auto_chunk"`
	MaxChunkSizeMB       int    `yaml:"max_chunk_size_mb" json:"max_chunk_size_mb"`
	ChunkDurationSeconds int    `yaml:"chunk_duration_seconds" json:"chunk_duration_seconds"`
	Language             string `yaml:"language,omitempty" json:"language,omitempty"`
	SaveIntermediate     bool   `yaml:"save_intermediate" json:"save_intermediate"`
}

// TTS contains text-to-speech defaults.
type TTS struct {
	Voice string  `yaml:"voice" json:"voice"`
	Model string  `yaml:"model" json:"model"`
	Speed float64 `yaml:"speed" json:"speed"`
}

// Workflow contains output and execution settings shared by commands.
type Workflow struct {
	OutputDir         string `yaml:"output_dir" json:"output_dir"`
	SaveState         bool   `yaml:"save_state" json:"save_state"`
	ParallelExecution bool   `yaml:"parallel_execution" json:"parallel_execution"`
	FailFast          bool   `yaml:"fail_fast" json:"fail_fast"`
}

// Config is one fully-resolved settings snapshot. Snapshots are treated as
// immutable after Resolve returns; mutate a copy and re-validate instead.
type Config struct {
	API           API           `yaml:"api" json:"api"`
	YouTube       YouTube       `yaml:"youtube" json:"youtube"`
	Transcription Transcription `yaml:"transcription" json:"transcription"`
	TTS           TTS           `yaml:"tts" json:"tts"`
	Workflow      Workflow      `yaml:"workflow" json:"workflow"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/eicli/config.yaml")
}

// Resolve builds a snapshot from all four layers. When path is empty the
// default config file is consulted only if it exists; an explicit path must
// exist. The .env file in the current directory is loaded first and never
// overrides variables already present in the environment.
func Resolve(path string) (*Config, error) {
	loadDotEnv()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	if path != "" && !exists {
		return nil, newNotFound(resolvedPath)
	}
	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load parses and validates the configuration file at path, layered with the
// current environment. The file must exist.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, newNotFound("(empty path)")
	}
	return Resolve(path)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		if err := checkExtension(path); err != nil {
			return "", false, err
		}
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// checkExtension rejects unsupported config file formats before any file
// I/O beyond the extension string itself.
func checkExtension(path string) *Error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return nil
	default:
		ext := filepath.Ext(path)
		if ext == "" {
			ext = "(none)"
		}
		return newUnsupported(ext)
	}
}

func decodeFile(path string, cfg *Config) error {
	if err := checkExtension(path); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newNotFound(path)
		}
		return newParse(err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return newParse(err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return newParse(err)
		}
	}
	return nil
}

// Save serializes the snapshot to path as YAML or JSON depending on the
// extension. The API key field is written as RedactedPlaceholder.
func (c *Config) Save(path string) error {
	if err := checkExtension(path); err != nil {
		return err
	}
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ValidateAPIKey reports whether the stored key looks like a real provider
// key: non-empty, expected prefix, minimum length. This is a local shape
// check, never a network round-trip.
func (c *Config) ValidateAPIKey() bool {
	key := c.API.OpenAIAPIKey.Reveal()
	return key != "" && strings.HasPrefix(key, "sk-") && len(key) >= 20
}

// EnsureOutputDir creates the workflow output directory.
func (c *Config) EnsureOutputDir() error {
	if strings.TrimSpace(c.Workflow.OutputDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Workflow.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", c.Workflow.OutputDir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
