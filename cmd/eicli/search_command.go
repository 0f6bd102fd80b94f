package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"eicli/internal/services/ai"
)

func init() {
	registerCommand(commandInfo{name: "search", group: groupQuery, build: newSearchCommand})
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		model          string
		allowedDomains []string
		country        string
		city           string
		region         string
		timezone       string
		contextSize    string
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Answer a question with live web search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.aiService()
			if err != nil {
				return err
			}

			opts := ai.SearchOptions{
				Model:          model,
				AllowedDomains: allowedDomains,
				ContextSize:    contextSize,
			}
			if country != "" || city != "" || region != "" || timezone != "" {
				opts.UserLocation = &ai.UserLocation{
					Country:  country,
					City:     city,
					Region:   region,
					Timezone: timezone,
				}
			}

			query := strings.Join(args, " ")
			start := time.Now()
			result, err := svc.Search(cmd.Context(), query, opts)
			ctx.recordHistory("search", opts.Model, truncate(query, 120), start, err)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			return renderSearchResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Model to answer with")
	cmd.Flags().StringArrayVar(&allowedDomains, "allow-domain", nil, "Restrict search to a domain (repeatable)")
	cmd.Flags().StringVar(&country, "country", "", "Bias results toward a two-letter country code")
	cmd.Flags().StringVar(&city, "city", "", "Bias results toward a city")
	cmd.Flags().StringVar(&region, "region", "", "Bias results toward a region")
	cmd.Flags().StringVar(&timezone, "timezone", "", "Bias results toward an IANA timezone")
	cmd.Flags().StringVar(&contextSize, "context-size", "", "Search context size (low, medium, high)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func renderSearchResult(cmd *cobra.Command, result *ai.SearchResult) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, strings.TrimSpace(result.Answer))

	if len(result.Citations) > 0 {
		rows := make([][]string, 0, len(result.Citations))
		for _, citation := range result.Citations {
			rows = append(rows, []string{truncate(citation.Title, 48), citation.URL})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"Citation", "URL"}, rows, nil))
	}
	if len(result.Sources) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Consulted %d sources\n", len(result.Sources))
	}
	return nil
}
