package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/basketlens/backend/internal/domain"
	"github.com/basketlens/backend/internal/infrastructure/retailer"
	"github.com/basketlens/backend/internal/usecase"
)

func newViewCmd() *cobra.Command {
	var (
		source string
		file   string
		query  string
		opts   pipelineOptions
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Filter and sort a saved retailer search payload",
		Long: `Reads a retailer search response (or a JSON array of its product records)
and prints the items that pass the filters. Use --file - to read stdin.`,
		Example: `  basketctl view --source waitrose --file milk.json --sort lowest_unit_price
  basketctl view --source asda --file - --kinds volume --price-max 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := domain.ParseSource(source)
			if err != nil {
				return err
			}

			data, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			records, err := decodeRecords(data)
			if err != nil {
				return err
			}
			logger.Debug().Str("source", string(src)).Int("records", len(records)).Msg("payload loaded")

			pipeline, err := buildPipeline(cmd, opts)
			if err != nil {
				return err
			}
			return runPipeline(cmd.OutOrStdout(), src, query, records, pipeline)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "retailer the payload came from (required)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "payload file, - for stdin (required)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search term the payload was fetched for")
	bindPipelineFlags(cmd, &opts)
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("file")

	return cmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}

// decodeRecords accepts a JSON array of product records, a Waitrose search
// response or an Asda search response
func decodeRecords(data []byte) ([]domain.RawRecord, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: payload is not JSON: %v", domain.ErrInvalidRequest, err)
	}

	switch v := payload.(type) {
	case []any:
		return toRecords(v)
	case map[string]any:
		if products, ok := v["componentsAndProducts"].([]any); ok {
			return toRecords(products)
		}
		if items, ok := asdaItems(v); ok {
			return toRecords(items)
		}
	}
	return nil, fmt.Errorf("%w: unrecognized payload shape", domain.ErrInvalidRequest)
}

// asdaItems finds the first zone of an Asda response carrying products
func asdaItems(response map[string]any) ([]any, bool) {
	data, _ := response["data"].(map[string]any)
	content, _ := data["tempo_cms_content"].(map[string]any)
	zones, _ := content["zones"].([]any)
	for _, z := range zones {
		zone, _ := z.(map[string]any)
		configs, _ := zone["configs"].(map[string]any)
		if products, ok := configs["products"].(map[string]any); ok {
			items, ok := products["items"].([]any)
			return items, ok
		}
	}
	return nil, false
}

func toRecords(values []any) ([]domain.RawRecord, error) {
	records := make([]domain.RawRecord, 0, len(values))
	for i, v := range values {
		record, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record %d is not an object", domain.ErrInvalidRequest, i)
		}
		records = append(records, record)
	}
	return records, nil
}

// runPipeline normalizes records and writes the displayed view
func runPipeline(w io.Writer, source domain.Source, query string, records []domain.RawRecord, pipeline *usecase.Pipeline) error {
	items, err := retailer.NormalizeBatch(source, records)
	if err != nil {
		return err
	}

	result := usecase.NewSearchResult(query, items)
	displayed, err := result.DisplayedView(pipeline)
	if err != nil {
		return err
	}
	unrecognized := result.Unrecognized()

	view := usecase.View{
		Query:        query,
		Pipeline:     pipeline.Snapshot(),
		Items:        displayed,
		Unrecognized: unrecognized,
		Counts: usecase.ViewCounts{
			Fetched:      result.Len(),
			Valid:        result.ValidLen(),
			Displayed:    len(displayed),
			Unrecognized: len(unrecognized),
		},
	}
	if view.Items == nil {
		view.Items = []domain.Item{}
	}
	if view.Unrecognized == nil {
		view.Unrecognized = []domain.Item{}
	}

	if outputJSON {
		return writeJSON(w, view)
	}
	return writeView(w, view)
}
