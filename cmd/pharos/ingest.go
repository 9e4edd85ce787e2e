// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ram-tewari/pharos-sub003/internal/graphstore"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest citation candidate files into the graph",
	Long: `Ingest reads candidate YAML files from graph/candidates/, upserting
resources and inserting their citation and relation edges. Unchanged
files are skipped on subsequent runs; changed files replace the
resource's previous edges.`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	store, err := graphstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d candidate file(s) failed ingestion", summary.Failed)
	}
	return nil
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the resolved citation network to YAML or JSON",
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := graphstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background()); err != nil {
			return err
		}
		fmt.Println("Exported to graph/index/export.yaml")
	case "json":
		if err := store.ExportJSON(context.Background()); err != nil {
			return err
		}
		fmt.Println("Exported to graph/index/export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(exportCmd)
}
