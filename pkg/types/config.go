// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that call the model API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Vision calls with two page
	// images routinely take tens of seconds; default is 120s.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with API requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RenderConfig holds settings for PDF rasterization.
type RenderConfig struct {
	// DPI is the rasterization resolution, 120-300 (default 240).
	DPI int `json:"dpi" yaml:"dpi"`

	// PagesDir is the directory page images are written to by the
	// render command (default "documents/pages").
	PagesDir string `json:"pages_dir" yaml:"pages_dir"`
}

// DefaultDPI is used when RenderConfig.DPI is unset or out of range.
const DefaultDPI = 240

// Normalized returns the config with DPI clamped into the supported range.
func (c RenderConfig) Normalized() RenderConfig {
	if c.DPI < 120 || c.DPI > 300 {
		c.DPI = DefaultDPI
	}
	return c
}

// CompressionProfile controls how a rendered page is shaped into a JPEG
// before being attached to an API request.
type CompressionProfile struct {
	// TargetWidth is the maximum width in pixels; wider pages are
	// downscaled preserving aspect ratio.
	TargetWidth int `json:"target_width" yaml:"target_width"`

	// Quality is the JPEG quality, 1-100.
	Quality int `json:"quality" yaml:"quality"`
}

// Compression profiles for the standard attempt and the lighter retry
// after a failed batch.
var (
	StandardProfile = CompressionProfile{TargetWidth: 1600, Quality: 80}
	LightProfile    = CompressionProfile{TargetWidth: 1200, Quality: 70}
)

// ExtractionConfig holds settings for the vision extraction stage.
type ExtractionConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint, for OpenAI-compatible hosts.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// BatchSize is the number of page images per API call (default 2).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// MaxRetries bounds rate-limit retries inside a single call (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// StoreConfig holds settings for the extraction run archive.
type StoreConfig struct {
	// ArchiveDir is the directory holding the SQLite database
	// (default "output/archive").
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// MaxUploadBytes bounds the accepted PDF size (default 64 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Render     RenderConfig     `json:"render" yaml:"render"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Server     ServerConfig     `json:"server" yaml:"server"`
}
