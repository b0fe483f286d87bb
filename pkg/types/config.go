// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scribe/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// BackendConfig holds settings for the generation backend client.
type BackendConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the generation API root (e.g. "https://api.example.com/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey authenticates against the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the retry budget for rate-limited requests (default 5).
	// Billing operations always use a single attempt regardless.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AutoSaveConfig holds settings for the auto-save controller.
type AutoSaveConfig struct {
	// Interval is the tick interval between save checks (default 3s).
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// StoreConfig holds settings for local persistence.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database (default ".scribe").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// TemplateConfig holds settings for the document template catalog.
type TemplateConfig struct {
	// CatalogPath is an optional YAML file of additional templates.
	CatalogPath string `json:"catalog_path,omitempty" yaml:"catalog_path,omitempty"`
}

// WorkflowConfig groups all component configurations.
type WorkflowConfig struct {
	Backend   BackendConfig  `json:"backend" yaml:"backend"`
	AutoSave  AutoSaveConfig `json:"auto_save" yaml:"auto_save"`
	Store     StoreConfig    `json:"store" yaml:"store"`
	Templates TemplateConfig `json:"templates" yaml:"templates"`
}
