package ai

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"eicli/internal/config"
	"eicli/internal/guard"
	"eicli/internal/services"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultTimeout     = 600 * time.Second
	defaultSearchModel = "gpt-5"
	defaultVisionModel = "gpt-5"
	defaultImageModel  = "gpt-image-1"
	transcriptionModel = "whisper-1"
)

// Config captures the runtime settings required to talk to the provider.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RateLimit  int
	RateWindow time.Duration
}

// Service is the provider wrapper. One instance owns one rate limiter;
// instances are not safe for concurrent use beyond what the limiter allows.
type Service struct {
	cfg        Config
	client     *openai.Client
	httpClient *http.Client
	limiter    *guard.Limiter
	guard      *guard.Guard
	logger     *slog.Logger

	ffprobeBinary string
	ffmpegBinary  string

	limiterOpts []guard.LimiterOption
	guardOpts   []guard.GuardOption
	guardConfig guard.Options
}

// Option customizes the service.
type Option func(*Service)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHTTPClient overrides the HTTP client used for raw endpoint calls and
// the SDK transport.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithLimiterOptions forwards options to the rate limiter (test clocks).
func WithLimiterOptions(opts ...guard.LimiterOption) Option {
	return func(s *Service) {
		s.limiterOpts = append(s.limiterOpts, opts...)
	}
}

// WithGuardOptions forwards options to the retry guard (test sleepers).
func WithGuardOptions(opts ...guard.GuardOption) Option {
	return func(s *Service) {
		s.guardOpts = append(s.guardOpts, opts...)
	}
}

// WithBackoff overrides the retry backoff delays.
func WithBackoff(base, max time.Duration) Option {
	return func(s *Service) {
		s.guardConfig.BaseDelay = base
		s.guardConfig.MaxDelay = max
	}
}

// WithMediaBinaries overrides the ffprobe/ffmpeg executables used for
// transcription chunking.
func WithMediaBinaries(ffprobe, ffmpeg string) Option {
	return func(s *Service) {
		if ffprobe != "" {
			s.ffprobeBinary = ffprobe
		}
		if ffmpeg != "" {
			s.ffmpegBinary = ffmpeg
		}
	}
}

// New constructs a Service from explicit settings.
func New(cfg Config, opts ...Option) *Service {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 3
	}
	if cfg.RateLimit < 1 {
		cfg.RateLimit = 10
	}

	s := &Service{
		cfg:           cfg,
		logger:        slog.Default(),
		ffprobeBinary: "ffprobe",
		ffmpegBinary:  "ffmpeg",
		guardConfig: guard.Options{
			MaxRetries:  cfg.MaxRetries,
			BaseDelay:   time.Second,
			GateRetries: true,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = s.httpClient
	s.client = openai.NewClientWithConfig(clientConfig)

	s.limiter = guard.NewLimiter(cfg.RateLimit, cfg.RateWindow, s.limiterOpts...)
	s.guard = guard.New(s.limiter, s.guardConfig, s.guardOpts...)
	return s
}

// FromConfig constructs a Service from a resolved settings snapshot.
func FromConfig(snap *config.Config, opts ...Option) *Service {
	return New(Config{
		APIKey:     snap.API.OpenAIAPIKey.Reveal(),
		BaseURL:    snap.API.OpenAIBaseURL,
		Timeout:    time.Duration(snap.API.TimeoutSeconds) * time.Second,
		MaxRetries: snap.API.MaxRetries,
		RateLimit:  snap.API.RateLimit,
	}, opts...)
}

// Name identifies the service in errors and history records.
func (s *Service) Name() string { return "openai" }

// CheckAvailable reports whether the service can be used, without any
// network round-trip.
func (s *Service) CheckAvailable() (bool, string) {
	if s.cfg.APIKey == "" {
		return false, "OpenAI API key is not configured (set API__OPENAI_API_KEY or api.openai_api_key)"
	}
	return true, ""
}

// Limiter exposes the rate limiter for inspection in tests.
func (s *Service) Limiter() *guard.Limiter { return s.limiter }

func (s *Service) ensureAvailable() error {
	if ok, reason := s.CheckAvailable(); !ok {
		return &services.UnavailableError{Service: s.Name(), Reason: reason}
	}
	return nil
}

func (s *Service) baseURL() string {
	if s.cfg.BaseURL != "" {
		return s.cfg.BaseURL
	}
	return defaultBaseURL
}
