package ai

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"eicli/internal/guard"
	"eicli/internal/services"
)

const (
	defaultSpeechModel = "tts-1"
	defaultSpeechVoice = "alloy"
	defaultSpeechSpeed = 1.0
	minSpeechSpeed     = 0.25
	maxSpeechSpeed     = 4.0
)

// speechVoices maps each synthesis model to the voices it supports.
var speechVoices = map[string]map[string]bool{
	"tts-1": {
		"alloy": true, "ash": true, "ballad": true, "coral": true,
		"echo": true, "fable": true, "onyx": true, "nova": true,
		"sage": true, "shimmer": true, "verse": true,
	},
	"tts-1-hd": {
		"alloy": true, "cedar": true, "echo": true, "fable": true,
		"marin": true, "nova": true, "onyx": true, "shimmer": true,
	},
}

var speechFormats = map[string]bool{
	"mp3": true, "opus": true, "aac": true,
	"flac": true, "wav": true, "pcm": true,
}

// SpeechOptions tune a synthesis call. Zero values fall back to alloy,
// tts-1, mp3, speed 1.0.
type SpeechOptions struct {
	Voice  string
	Model  string
	Format string
	Speed  float64
	// OnChunk is invoked as audio bytes arrive; total is -1 when the
	// provider does not announce a length.
	OnChunk func(received, total int64)
}

// SpeechVoicesFor lists the voices the given model supports, sorted.
func SpeechVoicesFor(model string) []string {
	voices, ok := speechVoices[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(voices))
	for name := range voices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Speak synthesizes text and writes the audio to outputPath.
func (s *Service) Speak(ctx context.Context, text, outputPath string, opts SpeechOptions) (*SpeechResult, error) {
	request, opts, err := s.speechRequest(text, opts)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(outputPath) == "" {
		return nil, services.NewParameterError("output", "output path cannot be empty")
	}

	data, err := guard.Call(ctx, s.guard, "Speech synthesis", func(ctx context.Context) ([]byte, error) {
		resp, err := s.client.CreateSpeech(ctx, request)
		if err != nil {
			return nil, err
		}
		defer resp.Close()
		return io.ReadAll(resp)
	})
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("speech: create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("speech: write %s: %w", outputPath, err)
	}
	if opts.OnChunk != nil {
		opts.OnChunk(int64(len(data)), int64(len(data)))
	}
	return &SpeechResult{
		Model:      string(request.Model),
		Voice:      string(request.Voice),
		Format:     string(request.ResponseFormat),
		Speed:      request.Speed,
		OutputPath: outputPath,
		Bytes:      int64(len(data)),
	}, nil
}

// SpeakStream synthesizes text and streams the audio into w as it arrives,
// reporting progress through opts.OnChunk. Only the request itself is
// retried; once bytes start flowing a failure surfaces directly.
func (s *Service) SpeakStream(ctx context.Context, text string, w io.Writer, opts SpeechOptions) (*SpeechResult, error) {
	request, opts, err := s.speechRequest(text, opts)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, services.NewParameterError("output", "output writer cannot be nil")
	}

	body, err := guard.Call(ctx, s.guard, "Speech synthesis", func(ctx context.Context) (openai.RawResponse, error) {
		return s.client.CreateSpeech(ctx, request)
	})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var received int64
	buf := make([]byte, 32<<10)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return nil, fmt.Errorf("speech: write output: %w", err)
			}
			received += int64(n)
			if opts.OnChunk != nil {
				opts.OnChunk(received, -1)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("speech: stream audio: %w", readErr)
		}
	}

	return &SpeechResult{
		Model:  string(request.Model),
		Voice:  string(request.Voice),
		Format: string(request.ResponseFormat),
		Speed:  request.Speed,
		Bytes:  received,
	}, nil
}

func (s *Service) speechRequest(text string, opts SpeechOptions) (openai.CreateSpeechRequest, SpeechOptions, error) {
	var zero openai.CreateSpeechRequest
	if err := s.ensureAvailable(); err != nil {
		return zero, opts, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return zero, opts, services.NewParameterError("text", "text cannot be empty")
	}

	model := strings.ToLower(strings.TrimSpace(opts.Model))
	if model == "" {
		model = defaultSpeechModel
	}
	voices, ok := speechVoices[model]
	if !ok {
		return zero, opts, services.NewParameterError("model",
			"Invalid model %q (expected tts-1 or tts-1-hd)", opts.Model)
	}
	voice := strings.ToLower(strings.TrimSpace(opts.Voice))
	if voice == "" {
		voice = defaultSpeechVoice
	}
	if !voices[voice] {
		return zero, opts, services.NewParameterError("voice",
			"Invalid voice %q for model %s (supported: %s)", opts.Voice, model,
			strings.Join(SpeechVoicesFor(model), ", "))
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "mp3"
	}
	if !speechFormats[format] {
		return zero, opts, services.NewParameterError("format",
			"Invalid format %q (expected mp3, opus, aac, flac, wav, or pcm)", opts.Format)
	}
	speed := opts.Speed
	if speed == 0 {
		speed = defaultSpeechSpeed
	}
	if speed < minSpeechSpeed || speed > maxSpeechSpeed {
		return zero, opts, services.NewParameterError("speed",
			"Speed %.2f out of range [0.25, 4.0]", speed)
	}

	return openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(model),
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormat(format),
		Speed:          speed,
	}, opts, nil
}
