package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"eicli/internal/guard"
	"eicli/internal/services"
)

const (
	defaultImageSize = "1024x1024"
	maxImageNameLen  = 80
)

var supportedImageSizes = map[string]bool{
	"auto":      true,
	"1024x1024": true,
	"1536x1024": true,
	"1024x1536": true,
}

// ImageOptions tune an image generation call.
type ImageOptions struct {
	Model   string
	Size    string
	Quality string
	// OutputPath is a file or directory to write the decoded image to. When
	// it is a directory the file is named after the prompt.
	OutputPath string
}

// GenerateImage renders prompt into a single image. The result always
// carries a data URL; when OutputPath is set the decoded bytes are also
// written to disk.
func (s *Service) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) (*ImageResult, error) {
	if err := s.ensureAvailable(); err != nil {
		return nil, err
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, services.NewParameterError("prompt", "prompt cannot be empty")
	}
	size := strings.ToLower(strings.TrimSpace(opts.Size))
	if size == "" {
		size = defaultImageSize
	}
	if !supportedImageSizes[size] {
		return nil, services.NewParameterError("size",
			"Invalid size %q (expected auto, 1024x1024, 1536x1024, or 1024x1536)", size)
	}
	quality, err := resolveQuality(opts.Quality)
	if err != nil {
		return nil, err
	}
	model := opts.Model
	if model == "" {
		model = defaultImageModel
	}

	request := openai.ImageRequest{
		Model:   model,
		Prompt:  prompt,
		Size:    size,
		Quality: quality,
		N:       1,
	}
	data, err := guard.Call(ctx, s.guard, "Image generation", func(ctx context.Context) (openai.ImageResponseDataInner, error) {
		resp, err := s.client.CreateImage(ctx, request)
		if err != nil {
			return openai.ImageResponseDataInner{}, err
		}
		if len(resp.Data) == 0 {
			return openai.ImageResponseDataInner{}, fmt.Errorf("image: empty response data")
		}
		return resp.Data[0], nil
	})
	if err != nil {
		return nil, err
	}

	result := &ImageResult{
		Prompt:        prompt,
		RevisedPrompt: data.RevisedPrompt,
		Model:         model,
		Size:          size,
		Quality:       quality,
	}
	switch {
	case data.B64JSON != "":
		result.ImageURL = "data:image/png;base64," + data.B64JSON
	case data.URL != "":
		result.ImageURL = data.URL
	default:
		return nil, fmt.Errorf("image: response carried neither image data nor a URL")
	}

	if opts.OutputPath != "" {
		if data.B64JSON == "" {
			return nil, fmt.Errorf("image: response carried no inline data to write to %s", opts.OutputPath)
		}
		path, err := writeImage(opts.OutputPath, prompt, data.B64JSON)
		if err != nil {
			return nil, err
		}
		result.LocalPath = path
	}
	return result, nil
}

// resolveQuality maps the configured quality to a concrete API value; the
// provider default "auto" resolves to medium.
func resolveQuality(quality string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(quality)) {
	case "", "auto":
		return "medium", nil
	case "low":
		return "low", nil
	case "medium":
		return "medium", nil
	case "high":
		return "high", nil
	default:
		return "", services.NewParameterError("quality",
			"Invalid quality %q (expected auto, low, medium, or high)", quality)
	}
}

func writeImage(outputPath, prompt, b64 string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("image: decode payload: %w", err)
	}
	path := outputPath
	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		path = filepath.Join(outputPath, promptFilename(prompt)+".png")
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("image: create output directory: %w", err)
	}
	if err := os.WriteFile(path, decoded, 0o644); err != nil {
		return "", fmt.Errorf("image: write %s: %w", path, err)
	}
	return path, nil
}

// promptFilename turns a prompt into a filesystem-safe base name.
func promptFilename(prompt string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, prompt)
	mapped = strings.TrimSpace(mapped)
	runes := []rune(mapped)
	if len(runes) > maxImageNameLen {
		mapped = strings.TrimSpace(string(runes[:maxImageNameLen]))
	}
	if mapped == "" {
		mapped = "image"
	}
	return mapped
}
