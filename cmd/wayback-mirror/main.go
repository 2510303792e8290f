// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the wayback-mirror CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the wayback-mirror CLI.
var rootCmd = &cobra.Command{
	Use:   "wayback-mirror",
	Short: "Bulk-download archived pages from the Wayback Machine",
	Long: `wayback-mirror downloads previously archived web pages from the Wayback
Machine, given a JSON file of (original URL, timestamp) pairs, and stores
each snapshot as a local HTML file under a path derived from the original
URL. Requests are strictly sequential with a fixed delay between them.

Each run is recorded in a local SQLite manifest; use the report command to
inspect past runs and their per-entry outcomes.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./wayback-mirror.yaml or ~/.config/wayback-mirror/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wayback-mirror")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wayback-mirror"))
		}
	}

	viper.SetEnvPrefix("WAYBACK_MIRROR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting returns the flag value, falling back to the viper key
// when the flag was left at its default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	v, _ := cmd.Flags().GetString(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	return v
}

// intSetting is stringSetting for integer flags.
func intSetting(cmd *cobra.Command, flag, key string) int {
	v, _ := cmd.Flags().GetInt(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return v
}

// float64Setting is stringSetting for float flags.
func float64Setting(cmd *cobra.Command, flag, key string) float64 {
	v, _ := cmd.Flags().GetFloat64(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return v
}

// durationSetting is stringSetting for duration flags.
func durationSetting(cmd *cobra.Command, flag, key string) time.Duration {
	v, _ := cmd.Flags().GetDuration(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
