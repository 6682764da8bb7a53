// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the folio CLI. folio converts PDF,
// EPUB, and plain text documents into text previews and downloadable
// artifacts, either one file at a time or behind an HTTP API.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/folio/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// appConfig and logger are populated before any subcommand runs.
var (
	appConfig types.Config
	logger    = zap.NewNop()
)

// rootCmd is the base command for the folio CLI.
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Convert documents into text previews and downloadable files",
	Long: `folio extracts text from PDF, EPUB, and plain text documents, renders it
as Markdown, plain text, HTML, or JSON, and generates PDF or EPUB files from
the result.

Use convert for a single file and serve to expose the same conversion
session over HTTP for a browser viewer.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		appConfig = cfg

		l, err := newLogger(cfg.Log)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./folio.yaml or ~/.config/folio/folio.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// A missing .env is normal; anything else is worth reporting.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("folio")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "folio"))
		}
	}

	viper.SetEnvPrefix("FOLIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment variables can
// override keys that are absent from the config file.
func setDefaults(v *viper.Viper, cfg types.Config) {
	v.SetDefault("pdf.page_size", cfg.PDF.PageSize)
	v.SetDefault("pdf.orientation", cfg.PDF.Orientation)
	v.SetDefault("pdf.margin", cfg.PDF.Margin)
	v.SetDefault("pdf.top_offset", cfg.PDF.TopOffset)
	v.SetDefault("pdf.title_size", cfg.PDF.TitleSize)
	v.SetDefault("pdf.body_size", cfg.PDF.BodySize)
	v.SetDefault("pdf.line_height", cfg.PDF.LineHeight)
	v.SetDefault("pdf.font_family", cfg.PDF.FontFamily)
	v.SetDefault("epub.language", cfg.EPUB.Language)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.allowed_origins", cfg.Server.AllowedOrigins)
	v.SetDefault("server.max_upload_bytes", cfg.Server.MaxUploadBytes)
}

// loadConfig decodes v into a validated types.Config.
func loadConfig(v *viper.Viper) (types.Config, error) {
	setDefaults(v, types.DefaultConfig())

	var cfg types.Config
	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds a zap logger from cfg. Logs go to stderr so stdout
// stays free for previews.
func newLogger(cfg types.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
