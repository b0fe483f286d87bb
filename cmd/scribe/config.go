// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/meshintel/scribe/pkg/types"
)

func init() {
	viper.SetDefault("backend.base_url", "https://api.scribe.meshintel.dev/v1")
	viper.SetDefault("backend.timeout", 60*time.Second)
	viper.SetDefault("backend.max_retries", 5)
	viper.SetDefault("auto_save.interval", 3*time.Second)
	viper.SetDefault("store.data_dir", ".scribe")
}

// loadConfig assembles the workflow configuration from viper (config file
// and SCRIBE_* environment) plus the loaded secrets.
func loadConfig() types.WorkflowConfig {
	return types.WorkflowConfig{
		Backend: types.BackendConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("backend.timeout"),
				UserAgent: "scribe/" + version,
			},
			BaseURL:    viper.GetString("backend.base_url"),
			APIKey:     secretDefault("scribe-api-key", viper.GetString("backend.api_key")),
			MaxRetries: viper.GetInt("backend.max_retries"),
		},
		AutoSave: types.AutoSaveConfig{
			Interval: viper.GetDuration("auto_save.interval"),
		},
		Store: types.StoreConfig{
			DataDir: viper.GetString("store.data_dir"),
		},
		Templates: types.TemplateConfig{
			CatalogPath: viper.GetString("templates.catalog_path"),
		},
	}
}
