// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ram-tewari/pharos-sub003/internal/graphstore"
	"github.com/ram-tewari/pharos-sub003/internal/resolver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Match unresolved citation targets against known resources",
	Long: `Resolve sweeps every citation edge that still points at a raw URL
and matches it against resource identifiers using normalized
comparison. Unique matches fill the internal target; ambiguous matches
pick the most recently created resource and are reported as warnings.
The sweep is idempotent and safe to re-run.`,
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	store, err := graphstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = resolver.New(store).ResolveAll(context.Background(), os.Stdout)
	return err
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
