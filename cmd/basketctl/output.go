package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/basketlens/backend/internal/domain"
	"github.com/basketlens/backend/internal/usecase"
)

var (
	headingColor = color.New(color.Bold)
	summaryColor = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeView prints the displayed items as a table followed by the
// unrecognized records
func writeView(w io.Writer, view usecase.View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tDESCRIPTION\tPRICE\tQUANTITY\tUNIT PRICE")
	for _, item := range view.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			item.Source, item.Description, item.Price, item.Quantity, unitPriceLabel(item))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summaryColor.Fprintf(w, "\n%d of %d items shown", view.Counts.Displayed, view.Counts.Valid)
	if view.Pipeline.Sort != usecase.SortNone {
		summaryColor.Fprintf(w, ", sorted by %s", view.Pipeline.Sort)
	}
	fmt.Fprintln(w)

	if len(view.Unrecognized) == 0 {
		return nil
	}
	warnColor.Fprintf(w, "\n%d unrecognized records:\n", len(view.Unrecognized))
	for _, item := range view.Unrecognized {
		description := item.Description
		if description == "" {
			description = "(no description)"
		}
		fmt.Fprintf(w, "  %s\t%s\n", item.Source, description)
	}
	return nil
}

func unitPriceLabel(item domain.Item) string {
	up := item.UnitPrice()
	if up.Fallback {
		return up.String() + " *"
	}
	return up.String()
}

func writeHeading(w io.Writer, title string) {
	headingColor.Fprintln(w, title)
}
