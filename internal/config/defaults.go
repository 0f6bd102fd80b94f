package config

const (
	defaultAPITimeoutSeconds = 600
	defaultAPIMaxRetries     = 3
	defaultAPIRateLimit      = 10

	defaultMaxFragmentFailures   = 10
	defaultYouTubeRetryAttempts  = 3
	defaultYouTubeTimeoutSeconds = 300

	defaultMaxChunkSizeMB       = 20
	defaultChunkDurationSeconds = 600

	defaultTTSVoice = "nova"
	defaultTTSModel = "tts-1-hd"
	defaultTTSSpeed = 1.0

	// Resolved against the current working directory during normalization.
	defaultWorkflowOutputDir = "workflow_outputs"
)

// Default returns a Config populated with repository defaults. Path fields
// are relative until normalize expands them.
func Default() Config {
	return Config{
		API: API{
			TimeoutSeconds: defaultAPITimeoutSeconds,
			MaxRetries:     defaultAPIMaxRetries,
			RateLimit:      defaultAPIRateLimit,
		},
		YouTube: YouTube{
			MaxFragmentFailures: defaultMaxFragmentFailures,
			RetryAttempts:       defaultYouTubeRetryAttempts,
			TimeoutSeconds:      defaultYouTubeTimeoutSeconds,
		},
		Transcription: Transcription{
			AutoChunk:            true,
			MaxChunkSizeMB:       defaultMaxChunkSizeMB,
			ChunkDurationSeconds: defaultChunkDurationSeconds,
		},
		TTS: TTS{
			Voice: defaultTTSVoice,
			Model: defaultTTSModel,
			Speed: defaultTTSSpeed,
		},
		Workflow: Workflow{
			OutputDir: defaultWorkflowOutputDir,
			SaveState: true,
			FailFast:  true,
		},
	}
}
