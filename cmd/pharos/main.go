// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pharos CLI: a citation graph
// engine answering neighbor, importance, and discovery queries over an
// ingested resource corpus.
// See docs/ARCHITECTURE § CLI Surface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pharos CLI.
var rootCmd = &cobra.Command{
	Use:   "pharos",
	Short: "Citation graph engine for research corpora",
	Long: `pharos maintains a directed citation graph over a corpus of resources
and answers three classes of queries: which resources cite or are cited
by a resource, which resources are globally important in the network,
and which distant resources are plausibly connected through unobserved
intermediates (literature-based discovery).

Extraction produces candidate citation files; pharos ingests them,
resolves raw targets against known resources, ranks importance, and
serves traversal and discovery queries from the resulting graph.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pharos.yaml or ~/.config/pharos/config.yaml)")
	rootCmd.PersistentFlags().String("graph-dir", "", "base directory for graph data (contains candidates/, index/)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pharos")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pharos"))
		}
	}

	viper.SetEnvPrefix("PHAROS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// storeConfig resolves the graph directory from the flag, the config
// file, and the default, in that order.
func storeConfig(cmd *cobra.Command) types.StoreConfig {
	graphDir, _ := cmd.Flags().GetString("graph-dir")
	if graphDir == "" {
		graphDir = viper.GetString("store.graph_dir")
	}
	if graphDir == "" {
		graphDir = "graph"
	}
	return types.StoreConfig{GraphDir: graphDir}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
