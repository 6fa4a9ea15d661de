// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubrank CLI.
// Implements: prd001-integrity, prd002-llm-eval, prd003-ranking,
//             prd004-verification (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubrank/internal/secrets"
	"github.com/pdiddy/pubrank/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// hfToken resolves the Hugging Face API token: explicit flag, then
// HF_TOKEN and HUGGINGFACE_TOKEN environment variables, then .secrets/.
func hfToken(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("HF_TOKEN"); v != "" {
		return v
	}
	if v := os.Getenv("HUGGINGFACE_TOKEN"); v != "" {
		return v
	}
	return loadedSecrets[secrets.KeyHFToken]
}

// verificationConfig assembles the CrossRef client config from flags,
// config file, and secrets.
func verificationConfig(mailto string) types.VerificationConfig {
	return types.VerificationConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "pubrank/" + version,
		},
		Mailto:            secretDefault(secrets.KeyCrossRefMailto, mailto),
		RequestsPerSecond: viper.GetFloat64("crossref.requests_per_second"),
		MaxRetries:        viper.GetInt("crossref.max_retries"),
	}
}

// llmConfig assembles the evaluator config from flags, config file, and
// secrets.
func llmConfig(model, token string, maxConcurrent int) types.LLMConfig {
	if model == "" {
		model = viper.GetString("llm.model")
	}
	return types.LLMConfig{
		HTTPConfig:    types.HTTPConfig{Timeout: 30 * time.Second},
		Model:         model,
		APIKey:        hfToken(token),
		MaxConcurrent: maxConcurrent,
	}
}

// rootCmd is the base command for the pubrank CLI.
var rootCmd = &cobra.Command{
	Use:   "pubrank",
	Short: "Trustworthiness evaluation and ranking for research publications",
	Long: `pubrank evaluates research publications for trustworthiness and ranks
them by a composite multi-signal score. It combines a deterministic
integrity analyzer (citation anomalies, predatory-venue patterns, title
heuristics, CrossRef verification), an LLM-backed quality evaluator, and
a weighted ranking engine with human-readable explanations.

Papers are supplied as a YAML file; each stage is a subcommand: rank runs
the full pipeline, analyze and evaluate run single stages, history lists
saved runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubrank.yaml or ~/.config/pubrank/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubrank")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubrank"))
		}
	}

	viper.SetEnvPrefix("PUBRANK")
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
