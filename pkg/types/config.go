// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PDFConfig holds page geometry and typography for generated PDFs.
// Units follow the gofpdf unit of the document (millimetres).
type PDFConfig struct {
	// PageSize is a gofpdf page size name such as "A4" or "Letter".
	PageSize string `json:"page_size" yaml:"page_size"`

	// Orientation is "P" (portrait) or "L" (landscape).
	Orientation string `json:"orientation" yaml:"orientation"`

	// Margin is applied to every side of the page (default 15).
	Margin float64 `json:"margin" yaml:"margin"`

	// TopOffset is the baseline of the first line on every page,
	// including the title on page 1 (default 20).
	TopOffset float64 `json:"top_offset" yaml:"top_offset"`

	// TitleSize is the title font size in points (default 16).
	TitleSize float64 `json:"title_size" yaml:"title_size"`

	// BodySize is the body font size in points (default 11).
	BodySize float64 `json:"body_size" yaml:"body_size"`

	// LineHeight is the vertical advance per body line (default 6).
	LineHeight float64 `json:"line_height" yaml:"line_height"`

	// FontFamily is a core PDF font (default "Helvetica").
	FontFamily string `json:"font_family" yaml:"font_family"`
}

// EPUBConfig holds package metadata for generated EPUBs.
type EPUBConfig struct {
	// Language is the dc:language value (default "en").
	Language string `json:"language" yaml:"language"`
}

// LogConfig controls the zap logger built by the CLI.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Development switches to the human-readable console encoder.
	Development bool `json:"development" yaml:"development"`
}

// ServerConfig holds settings for the HTTP host.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// AllowedOrigins lists CORS origins permitted to call the API.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`

	// MaxUploadBytes caps the size of an uploaded document (default 50 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// Config groups all folio settings.
type Config struct {
	PDF    PDFConfig    `json:"pdf" yaml:"pdf"`
	EPUB   EPUBConfig   `json:"epub" yaml:"epub"`
	Log    LogConfig    `json:"log" yaml:"log"`
	Server ServerConfig `json:"server" yaml:"server"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		PDF: PDFConfig{
			PageSize:    "A4",
			Orientation: "P",
			Margin:      15,
			TopOffset:   20,
			TitleSize:   16,
			BodySize:    11,
			LineHeight:  6,
			FontFamily:  "Helvetica",
		},
		EPUB: EPUBConfig{Language: "en"},
		Log:  LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			MaxUploadBytes: 50 << 20,
		},
	}
}

// Validate implements validation.Validatable.
func (c PDFConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.PageSize, validation.Required),
		validation.Field(&c.Orientation, validation.Required, validation.In("P", "L", "p", "l")),
		validation.Field(&c.Margin, validation.Required, validation.Min(0.0)),
		validation.Field(&c.TopOffset, validation.Required, validation.Min(0.0)),
		validation.Field(&c.TitleSize, validation.Required, validation.Min(1.0)),
		validation.Field(&c.BodySize, validation.Required, validation.Min(1.0)),
		validation.Field(&c.LineHeight, validation.Required, validation.Min(0.1)),
		validation.Field(&c.FontFamily, validation.Required, validation.In("Helvetica", "Times", "Courier", "Arial")),
	)
}

// Validate implements validation.Validatable.
func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error")),
	)
}

// Validate implements validation.Validatable.
func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.MaxUploadBytes, validation.Required, validation.Min(int64(1))),
	)
}

// Validate checks every section. Nested Validatable structs are validated
// by ValidateStruct.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.PDF),
		validation.Field(&c.EPUB),
		validation.Field(&c.Log),
		validation.Field(&c.Server),
	)
}
