// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/chorography/gazetteer"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatInt groups digits with commas for human readability.
func formatInt(n int) string {
	return printer.Sprintf("%d", n)
}

// loadCatalog reads the reference catalog, showing a progress bar when
// stderr is a terminal.
func loadCatalog(path string) (*gazetteer.Catalog, error) {
	var opts []gazetteer.CatalogOption

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		opts = append(opts, gazetteer.WithProgress(func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Loading catalog"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}

			_ = bar.Set(done)
		}))
	}

	catalog, err := gazetteer.LoadCatalog(path, opts...)

	if bar != nil {
		_ = bar.Finish()
	}

	return catalog, err
}

// openMirror copies the catalog into an in-memory duckdb database. The
// caller closes the returned db.
func openMirror(catalog *gazetteer.Catalog) (*sql.DB, gazetteer.Repository, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	repo := gazetteer.NewRepository(db)
	if err := gazetteer.MirrorCatalog(repo, catalog); err != nil {
		db.Close()

		return nil, nil, err
	}

	return db, repo, nil
}
