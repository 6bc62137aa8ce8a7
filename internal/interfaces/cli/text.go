package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uwazilabs/haki-analytics/internal/analytics/text"
)

func newTextCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Analyze or compare free-form report text",
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Run the full linguistic pipeline over one text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			result := text.NewAnalyzer().Analyze(input)

			if opts.Output == "json" {
				return printJSON(result)
			}

			fmt.Printf("sentiment:   %s (score %.2f, confidence %.2f)\n",
				result.Sentiment.Label, result.Sentiment.Score, result.Sentiment.Confidence)
			fmt.Printf("readability: %.1f\n", result.Readability)
			fmt.Printf("words: %d, sentences: %d\n",
				result.Statistics.WordCount, result.Statistics.SentenceCount)
			if len(result.Keywords) > 0 {
				words := make([]string, len(result.Keywords))
				for i, kw := range result.Keywords {
					words[i] = kw.Word
				}
				fmt.Printf("keywords:    %s\n", strings.Join(words, ", "))
			}
			for _, cat := range result.Categories {
				fmt.Printf("category:    %s (score %.1f)\n", cat.Category, cat.Score)
			}
			return nil
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [text-a] [text-b]",
		Short: "Compute the similarity of two texts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim := text.Similarity(args[0], args[1])
			if opts.Output == "json" {
				return printJSON(map[string]float64{"similarity": sim})
			}
			fmt.Printf("similarity: %.3f\n", sim)
			return nil
		},
	}

	cmd.AddCommand(analyzeCmd, compareCmd)
	return cmd
}
