// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jcodagnone/chorography/chart"
	"github.com/jcodagnone/chorography/shell"
	"github.com/jcodagnone/chorography/spatial"
	"github.com/spf13/cobra"
)

var serveOptions struct {
	catalog     string
	baseMap     string
	font        string
	listen      string
	maxUploadMB int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the map drawing web server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		if flags.Changed("catalog") {
			cfg.Catalog = serveOptions.catalog
		}
		if flags.Changed("basemap") {
			cfg.BaseMap = serveOptions.baseMap
		}
		if flags.Changed("font") {
			cfg.Font = serveOptions.font
		}
		if flags.Changed("listen") {
			cfg.Listen = serveOptions.listen
		}
		if flags.Changed("max-upload-mb") {
			cfg.MaxUploadMB = serveOptions.maxUploadMB
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		if err := chart.RegisterFont(cfg.Font); err != nil {
			return fmt.Errorf("registering font: %w", err)
		}

		catalog, err := loadCatalog(cfg.Catalog)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}

		fmt.Printf("📚 Catalog: %s gazetteers from %s\n", formatInt(catalog.Len()), cfg.Catalog)

		baseMap, err := spatial.LoadBaseMap(cfg.BaseMap)
		if err != nil {
			return fmt.Errorf("loading base map: %w", err)
		}

		fmt.Printf("🗺️  Base map: %s polygons, %s\n", formatInt(len(baseMap.Polygons)), baseMap.CRS)

		db, repo, err := openMirror(catalog)
		if err != nil {
			return err
		}
		defer db.Close()

		server := shell.NewServer(catalog, baseMap, repo, logger, shell.Options{
			MaxUploadBytes: cfg.MaxUploadBytes(),
			Metrics:        shell.NewMetrics(),
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("📍 Open http://%s in your browser\n", cfg.Listen)

		return server.Run(ctx, cfg.Listen)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveOptions.catalog, "catalog", "", "Reference catalog workbook (default from config)")
	serveCmd.Flags().StringVar(&serveOptions.baseMap, "basemap", "", "Province shapefile (default from config)")
	serveCmd.Flags().StringVar(&serveOptions.font, "font", "", "TrueType font with CJK glyphs (default from config)")
	serveCmd.Flags().StringVar(&serveOptions.listen, "listen", "", "Address to listen on (default from config)")
	serveCmd.Flags().IntVar(&serveOptions.maxUploadMB, "max-upload-mb", 0, "Upload size limit in MiB (default from config)")
}
