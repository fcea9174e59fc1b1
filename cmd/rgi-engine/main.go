// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rgi-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/koortimativa/rgi-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// apiKey returns the configured model API credential: explicit flag value
// first, then .secrets/openai-api-key, then the environment.
func apiKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return secrets.APIKey(loadedSecrets)
}

// rootCmd is the base command for the rgi-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "rgi-engine",
	Short: "Structured extraction from Brazilian property registry documents",
	Long: `rgi-engine reads a scanned matrícula PDF, rasterizes its pages, and
drives a multimodal model API in batched calls to produce a structured
JSON record: property description, owners, registered acts and
annotations (R-*/AV-*) with involved persons and monetary values, and
supporting excerpts.

Each stage is a subcommand: render converts PDF pages to images,
extract runs the full pipeline, runs browses archived extractions, and
serve exposes the pipeline over HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rgi-engine.yaml or ~/.config/rgi-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rgi-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rgi-engine"))
		}
	}

	viper.SetEnvPrefix("RGI_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
