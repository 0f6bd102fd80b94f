package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"eicli/internal/services/ai"
)

func init() {
	registerCommand(commandInfo{name: "image", group: groupGenerate, build: newImageCommand})
}

func newImageCommand(ctx *commandContext) *cobra.Command {
	var (
		size       string
		quality    string
		output     string
		model      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "image [prompt...]",
		Short: "Generate an image from a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.aiService()
			if err != nil {
				return err
			}

			outputPath := output
			if outputPath == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				if err := cfg.EnsureOutputDir(); err != nil {
					return err
				}
				outputPath = cfg.Workflow.OutputDir
			}

			prompt := strings.Join(args, " ")
			start := time.Now()
			result, err := svc.GenerateImage(cmd.Context(), prompt, ai.ImageOptions{
				Model:      model,
				Size:       size,
				Quality:    quality,
				OutputPath: outputPath,
			})
			ctx.recordHistory("image", model, truncate(prompt, 120), start, err)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %s image at %s quality\n", result.Size, result.Quality)
			if result.RevisedPrompt != "" {
				fmt.Fprintf(out, "Revised prompt: %s\n", result.RevisedPrompt)
			}
			fmt.Fprintf(out, "Saved to %s\n", result.LocalPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&size, "size", "", "Image size (auto, 1024x1024, 1536x1024, 1024x1536)")
	cmd.Flags().StringVar(&quality, "quality", "", "Image quality (auto, low, medium, high)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory (defaults to the workflow output directory)")
	cmd.Flags().StringVar(&model, "model", "", "Model to generate with")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
