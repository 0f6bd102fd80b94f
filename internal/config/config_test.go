package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eicli/internal/config"
)

// isolate points HOME at a temp directory and moves the working directory
// away from any real .env file. It returns the working directory.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	chdir(t, work)
	return work
}

// chdir changes into dir for the duration of the test, restoring the
// previous working directory afterwards.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	})
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestResolveDefaults(t *testing.T) {
	work := isolate(t)

	cfg, err := config.Resolve("")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if cfg.API.TimeoutSeconds != 600 {
		t.Errorf("api timeout: got %d want 600", cfg.API.TimeoutSeconds)
	}
	if cfg.API.MaxRetries != 3 {
		t.Errorf("api max retries: got %d want 3", cfg.API.MaxRetries)
	}
	if cfg.API.RateLimit != 10 {
		t.Errorf("api rate limit: got %d want 10", cfg.API.RateLimit)
	}
	if !cfg.API.OpenAIAPIKey.Empty() {
		t.Error("expected empty API key by default")
	}
	if cfg.YouTube.MaxFragmentFailures != 10 {
		t.Errorf("fragment failures: got %d want 10", cfg.YouTube.MaxFragmentFailures)
	}
	if cfg.YouTube.RetryAttempts != 3 || cfg.YouTube.TimeoutSeconds != 300 {
		t.Errorf("youtube defaults: got %d/%d want 3/300",
			cfg.YouTube.RetryAttempts, cfg.YouTube.TimeoutSeconds)
	}
	if !cfg.Transcription.AutoChunk {
		t.Error("expected auto chunk enabled by default")
	}
	if cfg.Transcription.MaxChunkSizeMB != 20 || cfg.Transcription.ChunkDurationSeconds != 600 {
		t.Errorf("transcription defaults: got %d/%d want 20/600",
			cfg.Transcription.MaxChunkSizeMB, cfg.Transcription.ChunkDurationSeconds)
	}
	if cfg.Transcription.SaveIntermediate {
		t.Error("expected save intermediate disabled by default")
	}
	if cfg.TTS.Voice != "nova" || cfg.TTS.Model != "tts-1-hd" || cfg.TTS.Speed != 1.0 {
		t.Errorf("tts defaults: got %s/%s/%v", cfg.TTS.Voice, cfg.TTS.Model, cfg.TTS.Speed)
	}
	wantOutput := filepath.Join(work, "workflow_outputs")
	if cfg.Workflow.OutputDir != wantOutput {
		t.Errorf("output dir: got %q want %q", cfg.Workflow.OutputDir, wantOutput)
	}
	if !cfg.Workflow.SaveState || !cfg.Workflow.FailFast || cfg.Workflow.ParallelExecution {
		t.Errorf("workflow defaults: save_state=%v fail_fast=%v parallel=%v",
			cfg.Workflow.SaveState, cfg.Workflow.FailFast, cfg.Workflow.ParallelExecution)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	work := isolate(t)
	path := writeConfig(t, work, "config.yaml", `
api:
  openai_api_key: sk-test-key-1234567890abcdef
  timeout_seconds: 120
tts:
  voice: Echo
  model: tts-1
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := cfg.API.OpenAIAPIKey.Reveal(); got != "sk-test-key-1234567890abcdef" {
		t.Errorf("api key: got %q", got)
	}
	if cfg.API.TimeoutSeconds != 120 {
		t.Errorf("timeout: got %d want 120", cfg.API.TimeoutSeconds)
	}
	if cfg.API.MaxRetries != 3 {
		t.Errorf("untouched field lost default: max retries %d", cfg.API.MaxRetries)
	}
	if cfg.TTS.Voice != "echo" {
		t.Errorf("voice not lowercased: %q", cfg.TTS.Voice)
	}
	if cfg.TTS.Model != "tts-1" {
		t.Errorf("model: got %q", cfg.TTS.Model)
	}
}

func TestLoadJSONFile(t *testing.T) {
	work := isolate(t)
	path := writeConfig(t, work, "config.json", `{
  "transcription": {"auto_chunk": false, "max_chunk_size_mb": 25, "chunk_duration_seconds": 300, "language": "ES"}
}`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.AutoChunk {
		t.Error("expected auto chunk disabled")
	}
	if cfg.Transcription.MaxChunkSizeMB != 25 {
		t.Errorf("chunk size: got %d want 25", cfg.Transcription.MaxChunkSizeMB)
	}
	if cfg.Transcription.Language != "es" {
		t.Errorf("language not lowercased: %q", cfg.Transcription.Language)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	work := isolate(t)
	path := writeConfig(t, work, "config.yaml", `
api:
  timeout_seconds: 120
tts:
  voice: echo
`)
	t.Setenv("API__TIMEOUT_SECONDS", "240")
	t.Setenv("TTS__VOICE", "onyx")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.TimeoutSeconds != 240 {
		t.Errorf("env should win over file: got %d want 240", cfg.API.TimeoutSeconds)
	}
	if cfg.TTS.Voice != "onyx" {
		t.Errorf("env should win over file: got %q want onyx", cfg.TTS.Voice)
	}
}

func TestDotEnvLoadsButNeverOverridesEnv(t *testing.T) {
	work := isolate(t)
	writeConfig(t, work, ".env", "API__TIMEOUT_SECONDS=111\nAPI__RATE_LIMIT=7\n")
	t.Setenv("API__TIMEOUT_SECONDS", "222")
	// godotenv sets process env without cleanup for keys it introduces.
	t.Cleanup(func() { os.Unsetenv("API__RATE_LIMIT") })

	cfg, err := config.Resolve("")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if cfg.API.TimeoutSeconds != 222 {
		t.Errorf("real env should win over .env: got %d want 222", cfg.API.TimeoutSeconds)
	}
	if cfg.API.RateLimit != 7 {
		t.Errorf(".env value should apply: got %d want 7", cfg.API.RateLimit)
	}
}

func TestLoadMissingFile(t *testing.T) {
	work := isolate(t)

	_, err := config.Load(filepath.Join(work, "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !config.IsKind(err, config.KindNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	work := isolate(t)

	// The path does not exist: the format check must run before any I/O.
	_, err := config.Load(filepath.Join(work, "config.toml"))
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if !config.IsKind(err, config.KindUnsupportedFormat) {
		t.Fatalf("expected unsupported-format kind, got %v", err)
	}
	if !strings.Contains(err.Error(), "Unsupported config file format") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	work := isolate(t)
	path := writeConfig(t, work, "config.yaml", "api: [unclosed\n")

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !config.IsKind(err, config.KindParse) {
		t.Fatalf("expected parse kind, got %v", err)
	}
	if !strings.Contains(err.Error(), "Failed to load config") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidationBounds(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "fragment failures below minimum",
			yaml:    "youtube:\n  max_fragment_failures: 0\n",
			wantErr: "must be between 1 and 50",
		},
		{
			name:    "fragment failures above maximum",
			yaml:    "youtube:\n  max_fragment_failures: 51\n",
			wantErr: "must be between 1 and 50",
		},
		{name: "fragment failures at minimum", yaml: "youtube:\n  max_fragment_failures: 1\n"},
		{name: "fragment failures at maximum", yaml: "youtube:\n  max_fragment_failures: 50\n"},
		{
			name:    "chunk size below minimum",
			yaml:    "transcription:\n  max_chunk_size_mb: 4\n",
			wantErr: "must be between 5 and 50",
		},
		{
			name:    "chunk size above maximum",
			yaml:    "transcription:\n  max_chunk_size_mb: 51\n",
			wantErr: "must be between 5 and 50",
		},
		{name: "chunk size at minimum", yaml: "transcription:\n  max_chunk_size_mb: 5\n"},
		{name: "chunk size at maximum", yaml: "transcription:\n  max_chunk_size_mb: 50\n"},
		{
			name:    "speed below minimum",
			yaml:    "tts:\n  speed: 0.24\n",
			wantErr: "must be between 0.25 and 4.0",
		},
		{
			name:    "speed above maximum",
			yaml:    "tts:\n  speed: 4.1\n",
			wantErr: "must be between 0.25 and 4.0",
		},
		{name: "speed at minimum", yaml: "tts:\n  speed: 0.25\n"},
		{name: "speed at maximum", yaml: "tts:\n  speed: 4.0\n"},
		{
			name:    "language too long",
			yaml:    "transcription:\n  language: eng\n",
			wantErr: "2 characters",
		},
		{
			name:    "language too short",
			yaml:    "transcription:\n  language: e\n",
			wantErr: "2 characters",
		},
		{name: "language uppercase is normalized", yaml: "transcription:\n  language: ES\n"},
		{
			name:    "unknown browser",
			yaml:    "youtube:\n  cookies_browser: netscape\n",
			wantErr: "must be one of",
		},
		{name: "browser case-insensitive", yaml: "youtube:\n  cookies_browser: Firefox\n"},
		{
			name:    "unknown voice",
			yaml:    "tts:\n  voice: hal9000\n",
			wantErr: "must be one of",
		},
		{
			name:    "unknown tts model",
			yaml:    "tts:\n  model: tts-2\n",
			wantErr: "must be one of",
		},
		{
			name:    "zero timeout",
			yaml:    "api:\n  timeout_seconds: 0\n",
			wantErr: "must be positive",
		},
		{
			name:    "zero max retries",
			yaml:    "api:\n  max_retries: 0\n",
			wantErr: "must be at least 1",
		},
		{
			name:    "zero rate limit",
			yaml:    "api:\n  rate_limit: 0\n",
			wantErr: "must be at least 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			work := isolate(t)
			path := writeConfig(t, work, "config.yaml", tc.yaml)

			_, err := config.Load(path)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !config.IsKind(err, config.KindValidation) {
				t.Fatalf("expected validation kind, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestEnvCoercionFailure(t *testing.T) {
	isolate(t)
	t.Setenv("API__TIMEOUT_SECONDS", "soon")

	_, err := config.Resolve("")
	if err == nil {
		t.Fatal("expected coercion error")
	}
	if !config.IsKind(err, config.KindValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
	if !strings.Contains(err.Error(), "must be an integer") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestTildeExpansion(t *testing.T) {
	work := isolate(t)
	home := os.Getenv("HOME")
	path := writeConfig(t, work, "config.yaml", `
youtube:
  cookies_browser: firefox
  cookies_file: ~/cookies.txt
workflow:
  output_dir: ~/outputs
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if want := filepath.Join(home, "cookies.txt"); cfg.YouTube.CookiesFile != want {
		t.Errorf("cookies file: got %q want %q", cfg.YouTube.CookiesFile, want)
	}
	if want := filepath.Join(home, "outputs"); cfg.Workflow.OutputDir != want {
		t.Errorf("output dir: got %q want %q", cfg.Workflow.OutputDir, want)
	}
}

func TestSaveRedactsAPIKey(t *testing.T) {
	work := isolate(t)

	cfg := config.Default()
	cfg.API.OpenAIAPIKey = config.NewSecret("sk-very-secret-value-123456")

	for _, name := range []string{"out.yaml", "out.json"} {
		path := filepath.Join(work, name)
		if err := cfg.Save(path); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if strings.Contains(string(data), "sk-very-secret-value-123456") {
			t.Fatalf("%s leaked the API key", name)
		}
		if !strings.Contains(string(data), config.RedactedPlaceholder) {
			t.Fatalf("%s missing the redaction placeholder", name)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	work := isolate(t)

	// Every non-secret field off its default; path fields absolute so
	// normalization on reload is an identity.
	snapshot := config.Config{
		API: config.API{
			OpenAIAPIKey:   config.NewSecret("sk-live-abcdefghijklmnop"),
			OpenAIBaseURL:  "https://proxy.example/v1",
			TimeoutSeconds: 120,
			MaxRetries:     5,
			RateLimit:      25,
		},
		YouTube: config.YouTube{
			CookiesBrowser:      "firefox",
			CookiesFile:         filepath.Join(work, "cookies.txt"),
			MaxFragmentFailures: 7,
			RetryAttempts:       1,
			TimeoutSeconds:      120,
		},
		Transcription: config.Transcription{
			AutoChunk:            false,
			MaxChunkSizeMB:       15,
			ChunkDurationSeconds: 240,
			Language:             "es",
			SaveIntermediate:     true,
		},
		TTS: config.TTS{
			Voice: "marin",
			Model: "tts-1",
			Speed: 1.5,
		},
		Workflow: config.Workflow{
			OutputDir:         filepath.Join(work, "renders"),
			SaveState:         false,
			ParallelExecution: true,
			FailFast:          false,
		},
	}

	for _, name := range []string{"roundtrip.yaml", "roundtrip.json"} {
		t.Run(filepath.Ext(name), func(t *testing.T) {
			path := filepath.Join(work, name)
			if err := snapshot.Save(path); err != nil {
				t.Fatalf("Save returned error: %v", err)
			}

			loaded, err := config.Load(path)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}

			if got := loaded.API.OpenAIAPIKey.Reveal(); got != config.RedactedPlaceholder {
				t.Fatalf("secret after round trip: got %q want %q", got, config.RedactedPlaceholder)
			}
			got := *loaded
			got.API.OpenAIAPIKey = snapshot.API.OpenAIAPIKey
			if got != snapshot {
				t.Fatalf("round trip drifted:\n got %+v\nwant %+v", got, snapshot)
			}
		})
	}
}

func TestValidateAPIKey(t *testing.T) {
	cases := []struct {
		name string
		key  string
		want bool
	}{
		{"empty", "", false},
		{"placeholder", config.RedactedPlaceholder, false},
		{"wrong prefix", "pk-1234567890abcdefghij", false},
		{"too short", "sk-short", false},
		{"valid", "sk-1234567890abcdefghij", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.API.OpenAIAPIKey = config.NewSecret(tc.key)
			if got := cfg.ValidateAPIKey(); got != tc.want {
				t.Fatalf("ValidateAPIKey(%q): got %v want %v", tc.key, got, tc.want)
			}
		})
	}
}

func TestResolveUsesDefaultFileWhenPresent(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")
	dir := filepath.Join(home, ".config", "eicli")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, dir, "config.yaml", "api:\n  timeout_seconds: 42\n")

	cfg, err := config.Resolve("")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if cfg.API.TimeoutSeconds != 42 {
		t.Fatalf("default file not consulted: got %d want 42", cfg.API.TimeoutSeconds)
	}
}
