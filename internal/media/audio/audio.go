package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Info captures the container-level metadata needed for chunking decisions.
type Info struct {
	DurationSeconds float64
	SizeBytes       int64
	FormatName      string
	BitRate         int64
}

type probePayload struct {
	Format struct {
		Filename   string `json:"filename"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		BitRate    string `json:"bit_rate"`
		FormatName string `json:"format_name"`
	} `json:"format"`
}

// Probe executes ffprobe against the provided path and decodes the result.
func Probe(ctx context.Context, binary, path string) (Info, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Info{}, errors.New("audio probe: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Info{}, fmt.Errorf("audio probe: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return ParseInfo(output)
}

// ParseInfo decodes raw ffprobe JSON output into an Info.
func ParseInfo(data []byte) (Info, error) {
	var payload probePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Info{}, fmt.Errorf("audio probe parse: %w", err)
	}
	info := Info{FormatName: payload.Format.FormatName}
	if payload.Format.Duration != "" {
		duration, err := strconv.ParseFloat(payload.Format.Duration, 64)
		if err != nil {
			return Info{}, fmt.Errorf("audio probe parse duration %q: %w", payload.Format.Duration, err)
		}
		info.DurationSeconds = duration
	}
	if payload.Format.Size != "" {
		size, err := strconv.ParseInt(payload.Format.Size, 10, 64)
		if err != nil {
			return Info{}, fmt.Errorf("audio probe parse size %q: %w", payload.Format.Size, err)
		}
		info.SizeBytes = size
	}
	if payload.Format.BitRate != "" {
		rate, err := strconv.ParseInt(payload.Format.BitRate, 10, 64)
		if err == nil {
			info.BitRate = rate
		}
	}
	return info, nil
}

// Split segments path into chunks of segmentSeconds inside outDir using
// stream copy, returning the chunk paths in playback order.
func Split(ctx context.Context, binary, path, outDir string, segmentSeconds int) ([]string, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if segmentSeconds <= 0 {
		return nil, errors.New("audio split: segment duration must be positive")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("audio split: create chunk directory: %w", err)
	}

	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".mp3"
	}
	pattern := filepath.Join(outDir, "chunk_%03d"+ext)

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error", "-hide_banner",
		"-i", path,
		"-f", "segment",
		"-segment_time", strconv.Itoa(segmentSeconds),
		"-c", "copy",
		"-reset_timestamps", "1",
		pattern,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("audio split: %w: %s", err, strings.TrimSpace(string(output)))
	}

	chunks, err := filepath.Glob(filepath.Join(outDir, "chunk_*"+ext))
	if err != nil {
		return nil, fmt.Errorf("audio split: list chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, errors.New("audio split: ffmpeg produced no chunks")
	}
	sort.Strings(chunks)
	return chunks, nil
}
