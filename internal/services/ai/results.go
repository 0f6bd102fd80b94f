package ai

// Citation is a URL reference attached to a search answer.
type Citation struct {
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
	StartIndex int    `json:"start_index,omitempty"`
	EndIndex   int    `json:"end_index,omitempty"`
}

// SearchResult is the outcome of a web search call.
type SearchResult struct {
	Query     string     `json:"query"`
	Answer    string     `json:"answer"`
	Model     string     `json:"model"`
	Citations []Citation `json:"citations,omitempty"`
	Sources   []string   `json:"sources,omitempty"`
}

// VisionResult is the outcome of an image analysis call.
type VisionResult struct {
	Prompt   string   `json:"prompt"`
	Analysis string   `json:"analysis"`
	Model    string   `json:"model"`
	Sources  []string `json:"sources"`
}

// ImageResult is the outcome of an image generation call.
type ImageResult struct {
	Prompt        string `json:"prompt"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
	Model         string `json:"model"`
	Size          string `json:"size"`
	Quality       string `json:"quality"`
	ImageURL      string `json:"image_url"`
	LocalPath     string `json:"local_path,omitempty"`
}

// SpeechResult is the outcome of a speech synthesis call.
type SpeechResult struct {
	Model      string  `json:"model"`
	Voice      string  `json:"voice"`
	Format     string  `json:"format"`
	Speed      float64 `json:"speed"`
	OutputPath string  `json:"output_path"`
	Bytes      int64   `json:"bytes"`
}

// TranscriptionResult is the outcome of an audio transcription call.
type TranscriptionResult struct {
	Source          string  `json:"source"`
	Text            string  `json:"text"`
	Model           string  `json:"model"`
	Language        string  `json:"language,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Chunks          int     `json:"chunks"`
	ChunkDir        string  `json:"chunk_dir,omitempty"`
}

// TranslationResult is the outcome of an audio-to-English translation call.
type TranslationResult struct {
	Source string `json:"source"`
	Text   string `json:"text"`
	Model  string `json:"model"`
}
