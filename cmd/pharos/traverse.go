// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ram-tewari/pharos-sub003/internal/graphstore"
	"github.com/ram-tewari/pharos-sub003/internal/traversal"
	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

var traverseCmd = &cobra.Command{
	Use:   "traverse [resource-id]",
	Short: "Expand the graph neighborhood around a resource",
	Long: `Traverse runs a bounded breadth-first expansion from a resource and
prints every resource reachable within the hop bound through edges
meeting the kind and weight filters. A resource with no edges yields an
empty result.`,
	Args: cobra.ExactArgs(1),
	RunE: runTraverse,
}

func runTraverse(cmd *cobra.Command, args []string) error {
	hops, _ := cmd.Flags().GetInt("hops")
	limit, _ := cmd.Flags().GetInt("limit")
	minWeight, _ := cmd.Flags().GetFloat64("min-weight")
	kinds, _ := cmd.Flags().GetStringSlice("kind")
	includePaths, _ := cmd.Flags().GetBool("paths")
	directionStr, _ := cmd.Flags().GetString("direction")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	opts := traversal.Options{
		StartID:      args[0],
		Hops:         hops,
		EdgeKinds:    kinds,
		MinWeight:    minWeight,
		Limit:        limit,
		IncludePaths: includePaths,
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	var direction traversal.Direction
	switch directionStr {
	case "outbound":
		direction = traversal.Outbound
	case "inbound":
		direction = traversal.Inbound
	case "both", "":
		direction = traversal.Both
	default:
		return fmt.Errorf("direction must be outbound, inbound, or both, got %q", directionStr)
	}

	store, err := graphstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	snapshot, err := traversal.LoadSnapshot(ctx, store, direction, types.TimeWindow{})
	if err != nil {
		return err
	}

	result, err := snapshot.Traverse(ctx, opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if len(result.Neighbors) == 0 {
		fmt.Println("No neighbors found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-30s  %-6s  %s\n", "Hop", "Resource", "Weight", "Edge")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for _, n := range result.Neighbors {
		fmt.Fprintf(os.Stdout, "%-4d  %-30s  %-6.2f  %s\n",
			n.Distance, n.ResourceID, n.Weight, n.EdgeID)
	}
	fmt.Fprintf(os.Stdout, "\n%d neighbors\n", len(result.Neighbors))

	if includePaths {
		fmt.Println()
		for _, p := range result.Paths {
			fmt.Println(strings.Join(p, " -> "))
		}
	}
	return nil
}

func init() {
	traverseCmd.Flags().Int("hops", 2, "maximum traversal depth")
	traverseCmd.Flags().Int("limit", 50, "maximum neighbors to return")
	traverseCmd.Flags().Float64("min-weight", 0, "exclude edges below this weight")
	traverseCmd.Flags().StringSlice("kind", nil, "edge kind allow-list (repeatable)")
	traverseCmd.Flags().String("direction", "both", "edge direction: outbound, inbound, or both")
	traverseCmd.Flags().Bool("paths", false, "include the path to each neighbor")
	traverseCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(traverseCmd)
}
