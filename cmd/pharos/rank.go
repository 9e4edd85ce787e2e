// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ram-tewari/pharos-sub003/internal/graphstore"
	"github.com/ram-tewari/pharos-sub003/internal/ranker"
	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Recompute global importance scores over the citation graph",
	Long: `Rank runs power-iteration PageRank over the resolved citation edge
set and commits the resulting scores atomically: a per-resource score
table plus the score denormalized onto each inbound citation edge.
A run that hits the iteration cap without converging still commits its
best-effort scores and reports the convergence state.`,
	RunE: runRank,
}

func runRank(cmd *cobra.Command, args []string) error {
	damping, _ := cmd.Flags().GetFloat64("damping")
	maxIterations, _ := cmd.Flags().GetInt("max-iterations")
	tolerance, _ := cmd.Flags().GetFloat64("tolerance")

	store, err := graphstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := ranker.OptionsFromConfig(types.RankerConfig{
		Damping:       damping,
		MaxIterations: maxIterations,
		Tolerance:     tolerance,
	})

	result, err := ranker.NewService(store, opts).Recompute(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("ranked %d resources in %d iterations (delta %.2e)\n",
		len(result.Scores), result.Iterations, result.Delta)
	if !result.Converged {
		fmt.Println("warning: iteration cap reached before convergence; scores committed best-effort")
	}
	return nil
}

func init() {
	rankCmd.Flags().Float64("damping", 0, "damping factor (default 0.85)")
	rankCmd.Flags().Int("max-iterations", 0, "iteration cap (default 100)")
	rankCmd.Flags().Float64("tolerance", 0, "L1 convergence threshold (default 1e-6)")

	rootCmd.AddCommand(rankCmd)
}
