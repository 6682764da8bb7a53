// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_Valid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "unknown font",
			mutate:  func(c *Config) { c.PDF.FontFamily = "Comic Sans" },
			wantErr: "font_family",
		},
		{
			name:    "missing line height",
			mutate:  func(c *Config) { c.PDF.LineHeight = 0 },
			wantErr: "line_height",
		},
		{
			name:    "bad orientation",
			mutate:  func(c *Config) { c.PDF.Orientation = "X" },
			wantErr: "orientation",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "level",
		},
		{
			name:    "missing listen address",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: "addr",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
