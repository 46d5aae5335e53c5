package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/basketlens/backend/config"
	"github.com/basketlens/backend/internal/domain"
	"github.com/basketlens/backend/internal/infrastructure/fetch"
)

func newSearchCmd() *cobra.Command {
	var (
		source string
		query  string
		opts   pipelineOptions
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search a retailer and filter the results",
		Long: `Runs a live search against a retailer using the server configuration
(BASKETLENS_* environment variables or config.yaml) and prints the items
that pass the filters.`,
		Example: `  basketctl search --source waitrose --query "oat milk" --sort lowest_unit_price --kinds volume`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := domain.ParseSource(source)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			pipeline, err := buildPipeline(cmd, opts)
			if err != nil {
				return err
			}

			searcher := newSearcher(src, cfg.Retailers)
			ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout(src, cfg.Retailers))
			defer cancel()

			records, err := searcher.SearchRaw(ctx, query)
			if err != nil {
				return err
			}
			return runPipeline(cmd.OutOrStdout(), src, query, records, pipeline)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "retailer to search (required)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search term (required)")
	bindPipelineFlags(cmd, &opts)
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("query")

	return cmd
}

func retailerConfig(source domain.Source, retailers config.RetailersConfig) config.RetailerConfig {
	if source == domain.SourceAsda {
		return retailers.Asda
	}
	return retailers.Waitrose
}

func newSearcher(source domain.Source, retailers config.RetailersConfig) domain.RawSearcher {
	r := retailerConfig(source, retailers)
	clientConfig := fetch.ClientConfig{
		BaseURL:           r.BaseURL,
		PageSize:          r.PageSize,
		MaxItems:          r.MaxItems,
		Timeout:           r.Timeout,
		RequestsPerSecond: r.RequestsPerSecond,
	}
	if source == domain.SourceAsda {
		return fetch.NewAsdaClient(clientConfig, logger)
	}
	return fetch.NewWaitroseClient(clientConfig, logger)
}

// searchTimeout bounds a whole paged search, not one request
func searchTimeout(source domain.Source, retailers config.RetailersConfig) time.Duration {
	timeout := retailerConfig(source, retailers).Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return 4 * timeout
}
