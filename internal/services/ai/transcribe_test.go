package ai_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eicli/internal/services"
	"eicli/internal/services/ai"
)

func writeAudioFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write audio file: %v", err)
	}
	return path
}

func TestTranscribeSingleFile(t *testing.T) {
	var gotModel, gotLanguage, gotFormat string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		gotFormat = r.FormValue("response_format")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		if _, err := w.Write([]byte("hello spoken world")); err != nil {
			t.Fatalf("write response: %v", err)
		}
	}))
	defer server.Close()

	path := writeAudioFile(t, "sample.mp3", 1024)
	svc := newTestService(server.URL)
	result, err := svc.Transcribe(context.Background(), path, ai.TranscribeOptions{Language: "ES"})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}

	if gotModel != "whisper-1" {
		t.Errorf("model: got %q", gotModel)
	}
	if gotLanguage != "es" {
		t.Errorf("language: got %q want es", gotLanguage)
	}
	if gotFormat != "text" {
		t.Errorf("response format: got %q", gotFormat)
	}
	if result.Text != "hello spoken world" {
		t.Errorf("text: got %q", result.Text)
	}
	if result.Chunks != 1 {
		t.Errorf("chunks: got %d want 1", result.Chunks)
	}
	if result.Model != "whisper-1" {
		t.Errorf("result model: got %q", result.Model)
	}
}

func TestTranscribeSkipsChunkingUnderLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if _, err := w.Write([]byte("short clip")); err != nil {
			t.Fatalf("write response: %v", err)
		}
	}))
	defer server.Close()

	// 1KB file against a 5MB limit: chunking must not engage, so no
	// ffprobe/ffmpeg binaries are needed.
	path := writeAudioFile(t, "clip.wav", 1024)
	svc := newTestService(server.URL)
	result, err := svc.Transcribe(context.Background(), path, ai.TranscribeOptions{
		AutoChunk:            true,
		MaxChunkSizeMB:       5,
		ChunkDurationSeconds: 600,
	})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one transcription call, got %d", calls)
	}
	if result.Chunks != 1 || result.ChunkDir != "" {
		t.Fatalf("unexpected chunking: %+v", result)
	}
}

func TestTranscribeParameterValidation(t *testing.T) {
	svc := newTestService("http://127.0.0.1:0")

	cases := []struct {
		name    string
		path    string
		opts    ai.TranscribeOptions
		wantErr string
	}{
		{"empty path", "  ", ai.TranscribeOptions{}, "cannot be empty"},
		{"unsupported format", "notes.txt", ai.TranscribeOptions{}, "Unsupported audio format"},
		{"missing file", "missing.mp3", ai.TranscribeOptions{}, "audio file not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Transcribe(context.Background(), tc.path, tc.opts)
			var paramErr *services.ParameterError
			if !errors.As(err, &paramErr) {
				t.Fatalf("expected parameter error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err.Error(), tc.wantErr)
			}
		})
	}

	path := writeAudioFile(t, "sample.mp3", 16)
	_, err := svc.Transcribe(context.Background(), path, ai.TranscribeOptions{Language: "eng"})
	var paramErr *services.ParameterError
	if !errors.As(err, &paramErr) {
		t.Fatalf("expected parameter error, got %v", err)
	}
	if !strings.Contains(err.Error(), "2 characters") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestTranslateAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/translations" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Fatalf("model: got %q", got)
		}
		if _, err := w.Write([]byte("hello in english\n")); err != nil {
			t.Fatalf("write response: %v", err)
		}
	}))
	defer server.Close()

	path := writeAudioFile(t, "speech.ogg", 64)
	svc := newTestService(server.URL)
	result, err := svc.TranslateAudio(context.Background(), path, "")
	if err != nil {
		t.Fatalf("TranslateAudio returned error: %v", err)
	}
	if result.Text != "hello in english" {
		t.Errorf("text: got %q", result.Text)
	}
	if result.Model != "whisper-1" {
		t.Errorf("model: got %q", result.Model)
	}
}

func TestTranscribeExhaustionNamesOperation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	path := writeAudioFile(t, "sample.mp3", 16)
	svc := newTestService(server.URL)
	_, err := svc.Transcribe(context.Background(), path, ai.TranscribeOptions{})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if !strings.Contains(err.Error(), "Transcription failed after 3 attempts") {
		t.Fatalf("unexpected message: %v", err)
	}
}
