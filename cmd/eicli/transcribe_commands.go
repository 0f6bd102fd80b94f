package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"eicli/internal/services/ai"
)

func init() {
	registerCommand(commandInfo{name: "transcribe", group: groupAudio, build: newTranscribeCommand})
	registerCommand(commandInfo{name: "translate-audio", group: groupAudio, build: newTranslateAudioCommand})
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var (
		language         string
		prompt           string
		noChunk          bool
		saveIntermediate bool
		jsonOutput       bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe [file]",
		Short: "Transcribe an audio file to text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, err := ctx.aiService()
			if err != nil {
				return err
			}

			opts := ai.TranscribeOptions{
				Language:             language,
				Prompt:               prompt,
				AutoChunk:            cfg.Transcription.AutoChunk && !noChunk,
				MaxChunkSizeMB:       cfg.Transcription.MaxChunkSizeMB,
				ChunkDurationSeconds: cfg.Transcription.ChunkDurationSeconds,
				SaveIntermediate:     saveIntermediate || cfg.Transcription.SaveIntermediate,
			}
			if opts.Language == "" {
				opts.Language = cfg.Transcription.Language
			}

			start := time.Now()
			result, err := svc.Transcribe(cmd.Context(), args[0], opts)
			ctx.recordHistory("transcribe", "whisper-1", args[0], start, err)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, strings.TrimSpace(result.Text))
			if result.Chunks > 1 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Transcribed %d chunks\n", result.Chunks)
			}
			if result.ChunkDir != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Chunks kept in %s\n", result.ChunkDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "ISO-639-1 language hint")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Context prompt for the recognizer")
	cmd.Flags().BoolVar(&noChunk, "no-chunk", false, "Disable automatic chunking of large files")
	cmd.Flags().BoolVar(&saveIntermediate, "save-intermediate", false, "Keep chunk files after transcription")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newTranslateAudioCommand(ctx *commandContext) *cobra.Command {
	var (
		prompt     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "translate-audio [file]",
		Short: "Translate an audio file to English text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.aiService()
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := svc.TranslateAudio(cmd.Context(), args[0], prompt)
			ctx.recordHistory("translate-audio", "whisper-1", args[0], start, err)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(result.Text))
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "Context prompt for the recognizer")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
