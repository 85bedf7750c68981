package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crosstalk-bio/crosstalk/infrastructure/query"
	"github.com/crosstalk-bio/crosstalk/internal/domain"
)

func newSearchCmd(logger *zap.Logger) *cobra.Command {
	var (
		catalogPath    string
		maxDistance    int
		maxSuggestions int
	)

	cmd := &cobra.Command{
		Use:   "search <partner>",
		Short: "List catalog interactions involving a gene or complex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partner := args[0]

			cat, err := providerFor(catalogPath).Load(cmd.Context(), catalogPath)
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}
			index := domain.BuildInteractionIndex(cat)
			logger.Info("catalog loaded",
				zap.Int("interactions", index.Len()),
				zap.Int("skipped", index.Skipped()),
			)

			searcher, err := query.NewInteractionSearcher(index, query.SearchConfig{
				MaxDistance:    maxDistance,
				MaxSuggestions: maxSuggestions,
			})
			if err != nil {
				return err
			}

			result := searcher.Search(partner)
			if len(result.Matches) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not a catalog interactor\n", partner)
				for _, s := range result.Suggestions {
					fmt.Fprintf(cmd.OutOrStdout(), "  did you mean %s?\n", s)
				}
				return nil
			}
			for _, m := range result.Matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", m.ID, m.PartnerA, m.PartnerB)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog archive path or postgres:// DSN (required)")
	cmd.Flags().IntVar(&maxDistance, "max-distance", 2, "largest edit distance for suggestions")
	cmd.Flags().IntVar(&maxSuggestions, "max-suggestions", 5, "maximum number of suggestions")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}
