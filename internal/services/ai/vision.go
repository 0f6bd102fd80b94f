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

const defaultVisionPrompt = "What's in this image?"

var imageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// VisionOptions tune an image analysis call.
type VisionOptions struct {
	Model     string
	Detail    string
	MaxTokens int
}

// AnalyzeImage analyzes a single image, given as an HTTP(S) URL or a local
// file path.
func (s *Service) AnalyzeImage(ctx context.Context, source, prompt string, opts VisionOptions) (*VisionResult, error) {
	return s.AnalyzeImages(ctx, []string{source}, prompt, opts)
}

// AnalyzeImages analyzes one or more images against a single prompt. Local
// files are inlined as base64 data URLs.
func (s *Service) AnalyzeImages(ctx context.Context, sources []string, prompt string, opts VisionOptions) (*VisionResult, error) {
	if err := s.ensureAvailable(); err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, services.NewParameterError("images", "at least one image is required")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = defaultVisionPrompt
	}
	detail, err := resolveDetail(opts.Detail)
	if err != nil {
		return nil, err
	}
	model := opts.Model
	if model == "" {
		model = defaultVisionModel
	}

	parts := []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: prompt}}
	for _, source := range sources {
		url, err := imageContentURL(source)
		if err != nil {
			return nil, err
		}
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: url, Detail: detail},
		})
	}

	request := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		}},
	}
	if opts.MaxTokens > 0 {
		request.MaxCompletionTokens = opts.MaxTokens
	}

	analysis, err := guard.Call(ctx, s.guard, "Vision analysis", func(ctx context.Context) (string, error) {
		resp, err := s.client.CreateChatCompletion(ctx, request)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return "", fmt.Errorf("vision: empty completion")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return nil, err
	}

	return &VisionResult{
		Prompt:   prompt,
		Analysis: analysis,
		Model:    model,
		Sources:  sources,
	}, nil
}

func resolveDetail(detail string) (openai.ImageURLDetail, error) {
	switch strings.ToLower(strings.TrimSpace(detail)) {
	case "", "auto":
		return openai.ImageURLDetailAuto, nil
	case "low":
		return openai.ImageURLDetailLow, nil
	case "high":
		return openai.ImageURLDetailHigh, nil
	default:
		return "", services.NewParameterError("detail",
			"Invalid detail %q (expected low, high, or auto)", detail)
	}
}

// imageContentURL passes HTTP(S) URLs through and inlines local files as
// base64 data URLs.
func imageContentURL(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", services.NewParameterError("image", "image source cannot be empty")
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") || strings.HasPrefix(source, "data:") {
		return source, nil
	}

	mime, ok := imageMIMETypes[strings.ToLower(filepath.Ext(source))]
	if !ok {
		return "", services.NewParameterError("image",
			"Unsupported image format %q (expected jpg, jpeg, png, gif, or webp)", filepath.Ext(source))
	}
	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", services.NewParameterError("image", "image file not found: %s", source)
		}
		return "", fmt.Errorf("vision: read image %s: %w", source, err)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
