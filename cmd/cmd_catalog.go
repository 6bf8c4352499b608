// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jcodagnone/chorography/gazetteer"
	"github.com/spf13/cobra"
	"golang.org/x/text/width"
)

var catalogOptions struct {
	catalog string
	top     int
	output  string
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the reference catalog",
}

// openCatalog loads the catalog named by --catalog or the configuration.
func openCatalog(cmd *cobra.Command) (*gazetteer.Catalog, error) {
	if cmd.Flags().Changed("catalog") {
		cfg.Catalog = catalogOptions.catalog
	}

	return loadCatalog(cfg.Catalog)
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count catalog gazetteers by era and region",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog, err := openCatalog(cmd)
		if err != nil {
			return err
		}

		db, repo, err := openMirror(catalog)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := repo.Stats(catalogOptions.top)
		if err != nil {
			return fmt.Errorf("computing stats: %w", err)
		}

		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "📚 %s gazetteers, %s located in %s H3 cells\n",
			formatInt(stats.Total), formatInt(stats.Located), formatInt(stats.Cells))

		eras := make([][2]string, len(stats.ByEra))
		for i, ec := range stats.ByEra {
			eras[i] = [2]string{labelOrDash(ec.Era), formatInt(ec.Count)}
		}

		printTable(out, "時代", eras)

		regions := make([][2]string, len(stats.ByRegion))
		for i, rc := range stats.ByRegion {
			regions[i] = [2]string{labelOrDash(rc.Region), formatInt(rc.Count)}
		}

		printTable(out, "地域", regions)

		return nil
	},
}

var catalogLookupCmd = &cobra.Command{
	Use:   "lookup <title>",
	Short: "Show the catalog metadata of a gazetteer title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog(cmd)
		if err != nil {
			return err
		}

		title := args[0]

		rec, ok := catalog.Lookup(title)
		if !ok {
			if s, ok := catalog.Suggest(title); ok {
				return fmt.Errorf("%q not found in catalog, did you mean %q?", title, s)
			}

			return fmt.Errorf("%q not found in catalog", title)
		}

		out := cmd.OutOrStdout()

		rows := make([][2]string, 0, len(gazetteer.DisplayColumns))
		rows = append(rows, [2]string{gazetteer.ColumnTitle, rec.Title})

		for _, c := range gazetteer.MetadataColumns {
			rows = append(rows, [2]string{c, gazetteer.FormatValue(rec.Value(c))})
		}

		rows = append(rows, [2]string{"時代", labelOrDash(rec.Era().String())})

		printTable(out, "", rows)

		return nil
	},
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check <xlsx>",
	Short: "Report which titles of a workbook are in the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog(cmd)
		if err != nil {
			return err
		}

		sheet, err := gazetteer.OpenSheet(args[0])
		if err != nil {
			return err
		}

		enriched, ok := gazetteer.Enrich(sheet, catalog)
		if !ok {
			return errors.New(gazetteer.MissingTitleWarning)
		}

		summary := enriched.Summarize(catalog)
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "✅ %s rows, %s matched, %s unmatched\n",
			formatInt(summary.Rows), formatInt(summary.Matched), formatInt(summary.Unmatched))

		for _, m := range summary.Missing {
			if m.Suggestion != "" {
				fmt.Fprintf(out, "⚠️  %s → %s\n", m.Title, m.Suggestion)
			} else {
				fmt.Fprintf(out, "⚠️  %s\n", m.Title)
			}
		}

		if catalogOptions.output == "" {
			return nil
		}

		f, err := os.Create(catalogOptions.output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", catalogOptions.output, err)
		}

		if err := enriched.WriteXLSX(f); err != nil {
			f.Close()

			return err
		}

		if err := f.Close(); err != nil {
			return err
		}

		logger.Infow("enriched workbook written", "path", catalogOptions.output)

		return nil
	},
}

func labelOrDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

// displayWidth counts East Asian wide and fullwidth runes as two columns.
func displayWidth(s string) int {
	n := 0

	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}

	return n
}

func pad(s string, n int) string {
	if w := displayWidth(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}

	return s
}

// printTable draws two columns in a box. An empty heading omits the
// header row.
func printTable(out io.Writer, heading string, rows [][2]string) {
	left, right := displayWidth(heading), 0
	for _, r := range rows {
		left = max(left, displayWidth(r[0]))
		right = max(right, displayWidth(r[1]))
	}

	a, b := strings.Repeat("─", left), strings.Repeat("─", right)

	fmt.Fprintf(out, "╭─%s─┬─%s─╮\n", a, b)

	if heading != "" {
		fmt.Fprintf(out, "│ %s │ %s │\n", pad(heading, left), pad("", right))
		fmt.Fprintf(out, "├─%s─┼─%s─┤\n", a, b)
	}

	for _, r := range rows {
		fmt.Fprintf(out, "│ %s │ %s │\n", pad(r[0], left), strings.Repeat(" ", right-displayWidth(r[1]))+r[1])
	}

	fmt.Fprintf(out, "╰─%s─┴─%s─╯\n", a, b)
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogStatsCmd)
	catalogCmd.AddCommand(catalogLookupCmd)
	catalogCmd.AddCommand(catalogCheckCmd)

	catalogCmd.PersistentFlags().StringVar(
		&catalogOptions.catalog,
		"catalog",
		"",
		"Reference catalog workbook (default from config)",
	)
	catalogStatsCmd.Flags().IntVar(
		&catalogOptions.top,
		"top",
		10,
		"Number of regions to list",
	)
	catalogCheckCmd.Flags().StringVarP(
		&catalogOptions.output,
		"output",
		"o",
		"",
		"Write the enriched workbook to this file",
	)
}
