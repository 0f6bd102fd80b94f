package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"eicli/internal/services/ai"
)

func init() {
	registerCommand(commandInfo{name: "speak", group: groupGenerate, build: newSpeakCommand})
}

func newSpeakCommand(ctx *commandContext) *cobra.Command {
	var (
		voice      string
		model      string
		format     string
		speed      float64
		output     string
		listVoices bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "speak [text...]",
		Short: "Synthesize speech from text",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listVoices {
				return renderVoices(cmd)
			}
			if len(args) == 0 {
				return fmt.Errorf("text to speak is required")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, err := ctx.aiService()
			if err != nil {
				return err
			}

			opts := ai.SpeechOptions{
				Voice:  voice,
				Model:  model,
				Format: format,
				Speed:  speed,
			}
			if opts.Voice == "" {
				opts.Voice = cfg.TTS.Voice
			}
			if opts.Model == "" {
				opts.Model = cfg.TTS.Model
			}
			if opts.Speed == 0 {
				opts.Speed = cfg.TTS.Speed
			}
			if opts.Format == "" {
				opts.Format = "mp3"
			}

			outputPath := output
			if outputPath == "" {
				outputPath = "speech." + opts.Format
			}

			text := strings.Join(args, " ")
			start := time.Now()
			result, err := speakToFile(cmd, ctx, svc, text, outputPath, opts)
			ctx.recordHistory("speak", opts.Model, truncate(text, 120), start, err)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s of %s audio to %s (voice %s)\n",
				humanize.Bytes(uint64(result.Bytes)), result.Format, result.OutputPath, result.Voice)
			return nil
		},
	}

	cmd.Flags().StringVar(&voice, "voice", "", "Voice to synthesize with")
	cmd.Flags().StringVar(&model, "model", "", "Synthesis model (tts-1, tts-1-hd)")
	cmd.Flags().StringVar(&format, "format", "", "Audio format (mp3, opus, aac, flac, wav, pcm)")
	cmd.Flags().Float64Var(&speed, "speed", 0, "Playback speed in [0.25, 4.0]")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output audio file")
	cmd.Flags().BoolVar(&listVoices, "list-voices", false, "List available voices per model")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// speakToFile streams synthesized audio into outputPath, with a live byte
// counter when attached to a terminal.
func speakToFile(cmd *cobra.Command, ctx *commandContext, svc *ai.Service, text, outputPath string, opts ai.SpeechOptions) (*ai.SpeechResult, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	var sink io.Writer = file
	var bar *progressbar.ProgressBar
	if interactiveOutput(cmd) {
		bar = progressbar.DefaultBytes(-1, "synthesizing")
		sink = io.MultiWriter(file, bar)
	}

	result, err := svc.SpeakStream(cmd.Context(), text, sink, opts)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(cmd.OutOrStdout())
	}
	if err != nil {
		_ = os.Remove(outputPath)
		return nil, err
	}
	if err := file.Sync(); err != nil {
		return nil, fmt.Errorf("flush output file: %w", err)
	}
	result.OutputPath = outputPath
	return result, nil
}

func renderVoices(cmd *cobra.Command) error {
	rows := [][]string{
		{"tts-1", strings.Join(ai.SpeechVoicesFor("tts-1"), ", ")},
		{"tts-1-hd", strings.Join(ai.SpeechVoicesFor("tts-1-hd"), ", ")},
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Model", "Voices"}, rows, nil))
	return nil
}
