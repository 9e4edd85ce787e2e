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
	"github.com/ram-tewari/pharos-sub003/internal/queryservice"
)

var citationsCmd = &cobra.Command{
	Use:   "citations [resource-id]",
	Short: "List the citation edges touching a resource",
	Long: `Citations partitions a resource's citation edges by direction:
outbound (what it cites) and inbound (what cites it), annotated with
resource titles and importance scores.`,
	Args: cobra.ExactArgs(1),
	RunE: runCitations,
}

func runCitations(cmd *cobra.Command, args []string) error {
	directionStr, _ := cmd.Flags().GetString("direction")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	direction, err := queryservice.ParseDirection(directionStr)
	if err != nil {
		return err
	}

	store, err := graphstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := queryservice.New(store).CitationsFor(context.Background(), args[0], direction)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if len(result.Outbound) > 0 {
		fmt.Println("Outbound:")
		printEdgeTable(result.Outbound)
	}
	if len(result.Inbound) > 0 {
		fmt.Println("Inbound:")
		printEdgeTable(result.Inbound)
	}
	fmt.Fprintf(os.Stdout, "outbound: %d, inbound: %d, total: %d\n",
		result.Counts.Outbound, result.Counts.Inbound, result.Counts.Total)
	return nil
}

func printEdgeTable(edges []queryservice.AnnotatedEdge) {
	fmt.Fprintf(os.Stdout, "  %-12s  %-30s  %-10s  %s\n", "Source", "Target", "Type", "Importance")
	fmt.Fprintln(os.Stdout, "  "+strings.Repeat("-", 70))
	for _, e := range edges {
		target := e.TargetResourceID
		if target == "" {
			target = e.TargetURL + " (unresolved)"
		}
		if len(target) > 30 {
			target = target[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "  %-12s  %-30s  %-10s  %.4f\n",
			e.SourceResourceID, target, e.CitationType, e.ImportanceScore)
	}
	fmt.Println()
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show the citation network around a set of resources",
	RunE:  runNetwork,
}

func runNetwork(cmd *cobra.Command, args []string) error {
	resourceIDs, _ := cmd.Flags().GetStringSlice("resource")
	minImportance, _ := cmd.Flags().GetFloat64("min-importance")
	depth, _ := cmd.Flags().GetInt("depth")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := graphstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := queryservice.New(store).CitationNetwork(
		context.Background(), resourceIDs, minImportance, depth)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-40s  %s\n", "Resource", "Title", "Importance")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for _, n := range result.Nodes {
		title := n.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-40s  %.4f\n", n.ID, title, n.Importance)
	}
	fmt.Fprintf(os.Stdout, "\n%d nodes, %d edges\n", len(result.Nodes), len(result.Edges))
	return nil
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the most important citation edges in the whole graph",
	RunE:  runOverview,
}

func runOverview(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := graphstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	edges, err := queryservice.New(store).GlobalOverview(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(edges)
	}

	if len(edges) == 0 {
		fmt.Println("No ranked edges found. Run 'pharos rank' first.")
		return nil
	}
	printEdgeTable(edges)
	return nil
}

func init() {
	citationsCmd.Flags().String("direction", "both", "citation direction: outbound, inbound, or both")
	citationsCmd.Flags().Bool("json", false, "output results as JSON")

	networkCmd.Flags().StringSlice("resource", nil, "seed resource IDs (repeatable)")
	networkCmd.Flags().Float64("min-importance", 0, "drop citation edges below this importance")
	networkCmd.Flags().Int("depth", 1, "traversal depth around each seed (1 or 2)")
	networkCmd.Flags().Bool("json", false, "output results as JSON")

	overviewCmd.Flags().Int("limit", 20, "maximum edges (capped at 100)")
	overviewCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(citationsCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(overviewCmd)
}
