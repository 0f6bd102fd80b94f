package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"eicli/internal/services/ai"
)

func init() {
	registerCommand(commandInfo{name: "vision", group: groupQuery, build: newVisionCommand})
}

func newVisionCommand(ctx *commandContext) *cobra.Command {
	var (
		prompt     string
		detail     string
		maxTokens  int
		model      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "vision [image...]",
		Short: "Analyze images from local files or URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.aiService()
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := svc.AnalyzeImages(cmd.Context(), args, prompt, ai.VisionOptions{
				Model:     model,
				Detail:    detail,
				MaxTokens: maxTokens,
			})
			ctx.recordHistory("vision", model, strings.Join(args, ", "), start, err)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(result.Analysis))
			return nil
		},
	}

	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Question to ask about the images")
	cmd.Flags().StringVar(&detail, "detail", "", "Analysis detail (low, high, auto)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Cap the completion length")
	cmd.Flags().StringVar(&model, "model", "", "Model to analyze with")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
