// Package audio inspects audio files with ffprobe and splits long files
// into fixed-duration segments with ffmpeg for chunked transcription.
package audio
