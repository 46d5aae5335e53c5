package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/basketlens/backend/internal/domain"
	"github.com/basketlens/backend/internal/usecase"
)

type unitInfo struct {
	Symbol string          `json:"symbol"`
	Kind   domain.UnitKind `json:"kind"`
}

type catalog struct {
	Units        []unitInfo              `json:"units"`
	UnitKinds    []domain.UnitKind       `json:"unitKinds"`
	Currencies   []domain.Currency       `json:"currencies"`
	SortCriteria []usecase.SortCriterion `json:"sortCriteria"`
	Filters      []usecase.FilterName    `json:"filters"`
	Sources      []domain.Source         `json:"sources"`
}

func newCatalog() catalog {
	units := make([]unitInfo, 0, len(domain.Units()))
	for _, u := range domain.Units() {
		units = append(units, unitInfo{Symbol: u.Symbol(), Kind: u.Kind()})
	}
	return catalog{
		Units:        units,
		UnitKinds:    domain.UnitKinds(),
		Currencies:   domain.Currencies(),
		SortCriteria: usecase.SortCriteria(),
		Filters:      usecase.FilterNames(),
		Sources:      domain.Sources(),
	}
}

func newUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List units, unit kinds, currencies and sort criteria",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newCatalog()
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), c)
			}
			return writeCatalog(cmd.OutOrStdout(), c)
		},
	}
}

func writeCatalog(w io.Writer, c catalog) error {
	writeHeading(w, "Units")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, u := range c.Units {
		fmt.Fprintf(tw, "  %s\t%s\n", u.Symbol, u.Kind)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lists := []struct {
		title  string
		values []string
	}{
		{"Unit kinds", stringsOf(c.UnitKinds)},
		{"Currencies", stringsOf(c.Currencies)},
		{"Sort criteria", stringsOf(c.SortCriteria)},
		{"Filters", stringsOf(c.Filters)},
		{"Sources", stringsOf(c.Sources)},
	}
	for _, l := range lists {
		fmt.Fprintln(w)
		writeHeading(w, l.title)
		for _, v := range l.values {
			fmt.Fprintf(w, "  %s\n", v)
		}
	}
	return nil
}

func stringsOf[T any](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprint(v)
	}
	return out
}
