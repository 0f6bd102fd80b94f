package ai

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"eicli/internal/guard"
	"eicli/internal/media/audio"
	"eicli/internal/services"
)

const defaultChunkSeconds = 600

var audioExtensions = map[string]bool{
	".flac": true, ".m4a": true, ".mp3": true, ".mp4": true, ".mpeg": true,
	".mpga": true, ".oga": true, ".ogg": true, ".wav": true, ".webm": true,
}

// TranscribeOptions tune a transcription call.
type TranscribeOptions struct {
	// Language is an ISO-639-1 hint for the recognizer; empty autodetects.
	Language string
	Prompt   string
	// AutoChunk splits files larger than MaxChunkSizeMB into
	// ChunkDurationSeconds segments and transcribes each in order.
	AutoChunk            bool
	MaxChunkSizeMB       int
	ChunkDurationSeconds int
	// SaveIntermediate keeps the chunk directory instead of removing it.
	SaveIntermediate bool
}

// Transcribe converts the audio file at path to text in its spoken
// language. Files above the chunk size limit are split with ffmpeg and
// transcribed segment by segment.
func (s *Service) Transcribe(ctx context.Context, path string, opts TranscribeOptions) (*TranscriptionResult, error) {
	if err := s.ensureAvailable(); err != nil {
		return nil, err
	}
	size, err := validateAudioPath(path)
	if err != nil {
		return nil, err
	}
	language, err := normalizeLanguage(opts.Language)
	if err != nil {
		return nil, err
	}

	result := &TranscriptionResult{
		Source:   path,
		Model:    transcriptionModel,
		Language: language,
		Chunks:   1,
	}

	limit := int64(opts.MaxChunkSizeMB) * 1024 * 1024
	if !opts.AutoChunk || limit <= 0 || size <= limit {
		text, err := s.transcribeFile(ctx, path, language, opts.Prompt)
		if err != nil {
			return nil, err
		}
		result.Text = strings.TrimSpace(text)
		return result, nil
	}

	info, err := audio.Probe(ctx, s.ffprobeBinary, path)
	if err != nil {
		return nil, err
	}
	result.DurationSeconds = info.DurationSeconds

	chunkSeconds := opts.ChunkDurationSeconds
	if chunkSeconds <= 0 {
		chunkSeconds = defaultChunkSeconds
	}
	chunkDir, err := os.MkdirTemp("", "eicli-chunks-")
	if err != nil {
		return nil, fmt.Errorf("transcribe: create chunk directory: %w", err)
	}
	if opts.SaveIntermediate {
		result.ChunkDir = chunkDir
	} else {
		defer os.RemoveAll(chunkDir)
	}

	chunks, err := audio.Split(ctx, s.ffmpegBinary, path, chunkDir, chunkSeconds)
	if err != nil {
		return nil, err
	}
	result.Chunks = len(chunks)

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		s.logger.Info("transcribing chunk",
			"chunk", i+1, "total", len(chunks), "path", filepath.Base(chunk))
		text, err := s.transcribeFile(ctx, chunk, language, opts.Prompt)
		if err != nil {
			return nil, fmt.Errorf("transcribe chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	result.Text = strings.Join(parts, " ")
	return result, nil
}

// TranslateAudio converts the audio file at path to English text.
func (s *Service) TranslateAudio(ctx context.Context, path, prompt string) (*TranslationResult, error) {
	if err := s.ensureAvailable(); err != nil {
		return nil, err
	}
	if _, err := validateAudioPath(path); err != nil {
		return nil, err
	}

	text, err := guard.Call(ctx, s.guard, "Audio translation", func(ctx context.Context) (string, error) {
		resp, err := s.client.CreateTranslation(ctx, openai.AudioRequest{
			Model:    transcriptionModel,
			FilePath: path,
			Prompt:   prompt,
			Format:   openai.AudioResponseFormatText,
		})
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	})
	if err != nil {
		return nil, err
	}
	return &TranslationResult{Source: path, Text: strings.TrimSpace(text), Model: transcriptionModel}, nil
}

func (s *Service) transcribeFile(ctx context.Context, path, language, prompt string) (string, error) {
	return guard.Call(ctx, s.guard, "Transcription", func(ctx context.Context) (string, error) {
		resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    transcriptionModel,
			FilePath: path,
			Language: language,
			Prompt:   prompt,
			Format:   openai.AudioResponseFormatText,
		})
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	})
}

func validateAudioPath(path string) (int64, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, services.NewParameterError("file", "audio file path cannot be empty")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !audioExtensions[ext] {
		return 0, services.NewParameterError("file",
			"Unsupported audio format %q (expected flac, m4a, mp3, mp4, mpeg, mpga, oga, ogg, wav, or webm)", ext)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, services.NewParameterError("file", "audio file not found: %s", path)
		}
		return 0, fmt.Errorf("transcribe: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, services.NewParameterError("file", "audio path is a directory: %s", path)
	}
	return info.Size(), nil
}

func normalizeLanguage(language string) (string, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return "", nil
	}
	if len(language) != 2 {
		return "", services.NewParameterError("language",
			"language must be exactly 2 characters (ISO-639-1), got %q", language)
	}
	return language, nil
}
