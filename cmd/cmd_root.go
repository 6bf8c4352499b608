// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/jcodagnone/chorography/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "2006-01-02 15:04:05"

var rootOptions struct {
	configPath string
	logLevel   string
}

var (
	cfg    *config.Config
	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "chorography",
	Short: "繪製古代地方志地圖",
	Long: `
chorography enriches spreadsheets of local gazetteer (地方志) titles with the
metadata of a reference catalog and draws where and when they were compiled
on a province map, one colour per era.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error

		cfg, err = config.Load(rootOptions.configPath)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = rootOptions.logLevel
		}

		level, err := cfg.Level()
		if err != nil {
			return err
		}

		l, err := newLogger(level)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		logger = l.Sugar()

		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil
	zc.DisableStacktrace = true
	zc.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	return zc.Build()
}

var Version = "dev"

func Execute(version string) {
	Version = version
	rootCmd.Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&rootOptions.configPath,
		"config",
		config.DefaultPath,
		"YAML configuration file; a missing file means defaults",
	)
	rootCmd.PersistentFlags().StringVar(
		&rootOptions.logLevel,
		"log-level",
		"info",
		"Log level: debug, info, warn or error",
	)
}
