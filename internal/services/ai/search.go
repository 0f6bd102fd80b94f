package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"eicli/internal/guard"
	"eicli/internal/services"
)

// UserLocation biases search results toward a geography.
type UserLocation struct {
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// SearchOptions tune a web search call. Zero values mean provider defaults.
type SearchOptions struct {
	Model          string
	AllowedDomains []string
	UserLocation   *UserLocation
	ContextSize    string
}

type searchToolLocation struct {
	Type     string `json:"type"`
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

type searchToolFilters struct {
	AllowedDomains []string `json:"allowed_domains,omitempty"`
}

type searchTool struct {
	Type              string              `json:"type"`
	Filters           *searchToolFilters  `json:"filters,omitempty"`
	UserLocation      *searchToolLocation `json:"user_location,omitempty"`
	SearchContextSize string              `json:"search_context_size,omitempty"`
}

type searchRequest struct {
	Model string       `json:"model"`
	Tools []searchTool `json:"tools"`
	Input string       `json:"input"`
}

type responseAnnotation struct {
	Type       string `json:"type"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

type responseContent struct {
	Type        string               `json:"type"`
	Text        string               `json:"text"`
	Annotations []responseAnnotation `json:"annotations"`
}

type responseSource struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type responseAction struct {
	Type    string           `json:"type"`
	Sources []responseSource `json:"sources"`
}

type responseOutputItem struct {
	Type    string            `json:"type"`
	Status  string            `json:"status"`
	Content []responseContent `json:"content"`
	Action  *responseAction   `json:"action"`
}

type responsesPayload struct {
	Model  string               `json:"model"`
	Output []responseOutputItem `json:"output"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Search answers query with the provider's web search tool. The answer
// carries inline citations and the list of pages the search consulted.
func (s *Service) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	if err := s.ensureAvailable(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.NewParameterError("query", "search query cannot be empty")
	}
	switch opts.ContextSize {
	case "", "low", "medium", "high":
	default:
		return nil, services.NewParameterError("context_size",
			"Invalid context size %q (expected low, medium, or high)", opts.ContextSize)
	}
	model := opts.Model
	if model == "" {
		model = defaultSearchModel
	}

	tool := searchTool{Type: "web_search", SearchContextSize: opts.ContextSize}
	if len(opts.AllowedDomains) > 0 {
		tool.Filters = &searchToolFilters{AllowedDomains: opts.AllowedDomains}
	}
	if loc := opts.UserLocation; loc != nil {
		tool.UserLocation = &searchToolLocation{
			Type:     "approximate",
			Country:  loc.Country,
			City:     loc.City,
			Region:   loc.Region,
			Timezone: loc.Timezone,
		}
	}
	body, err := json.Marshal(searchRequest{Model: model, Tools: []searchTool{tool}, Input: query})
	if err != nil {
		return nil, fmt.Errorf("search: encode request: %w", err)
	}

	payload, err := guard.Call(ctx, s.guard, "Search", func(ctx context.Context) (*responsesPayload, error) {
		return s.postResponses(ctx, body)
	})
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Query: query, Model: model}
	for _, item := range payload.Output {
		switch item.Type {
		case "message":
			for _, content := range item.Content {
				if content.Type != "output_text" {
					continue
				}
				result.Answer += content.Text
				for _, ann := range content.Annotations {
					if ann.Type != "url_citation" {
						continue
					}
					result.Citations = append(result.Citations, Citation{
						URL:        ann.URL,
						Title:      ann.Title,
						StartIndex: ann.StartIndex,
						EndIndex:   ann.EndIndex,
					})
				}
			}
		case "web_search_call":
			if item.Action == nil {
				continue
			}
			for _, source := range item.Action.Sources {
				if source.URL != "" {
					result.Sources = append(result.Sources, source.URL)
				}
			}
		}
	}
	return result, nil
}

func (s *Service) postResponses(ctx context.Context, body []byte) (*responsesPayload, error) {
	endpoint := s.baseURL() + "/responses"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("search: read response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("search: %s: %s", resp.Status, summarizeBody(data))
	}

	var payload responsesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}
	if payload.Error != nil && payload.Error.Message != "" {
		return nil, fmt.Errorf("search: %s", payload.Error.Message)
	}
	return &payload, nil
}

func summarizeBody(data []byte) string {
	text := strings.TrimSpace(string(data))
	if len(text) > 512 {
		text = text[:512]
	}
	if text == "" {
		return "empty response body"
	}
	return text
}
