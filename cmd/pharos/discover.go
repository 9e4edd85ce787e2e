// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ram-tewari/pharos-sub003/internal/discovery"
	"github.com/ram-tewari/pharos-sub003/internal/graphstore"
	"github.com/ram-tewari/pharos-sub003/pkg/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Generate literature-based discovery hypotheses",
	Long: `Discover applies the ABC pattern: given endpoint resources A and C,
it finds bridge resources B connected to both within the hop bound and
ranks the resulting hypotheses by plausibility. Disjoint neighborhoods
produce an empty list, which is a valid outcome.

Supply --since/--until to restrict discovery to edges created within a
window, answering "would this have been findable by date X".`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	aIDs, _ := cmd.Flags().GetStringSlice("a")
	cIDs, _ := cmd.Flags().GetStringSlice("c")
	hops, _ := cmd.Flags().GetInt("hops")
	limit, _ := cmd.Flags().GetInt("limit")
	since, _ := cmd.Flags().GetString("since")
	until, _ := cmd.Flags().GetString("until")
	persist, _ := cmd.Flags().GetBool("persist")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if len(aIDs) == 0 || len(cIDs) == 0 {
		return fmt.Errorf("both --a and --c endpoint resources are required")
	}

	window, err := parseWindow(since, until)
	if err != nil {
		return err
	}

	store, err := graphstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	engine := discovery.New(store, types.DiscoveryConfig{})
	hypotheses, err := engine.Discover(context.Background(), discovery.Request{
		AResourceIDs: aIDs,
		CResourceIDs: cIDs,
		HopBound:     hops,
		Limit:        limit,
		Window:       window,
		Persist:      persist,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hypotheses)
	}

	printHypotheses(hypotheses)
	return nil
}

func parseWindow(since, until string) (types.TimeWindow, error) {
	var window types.TimeWindow
	if since != "" {
		t, err := time.Parse("2006-01-02", since)
		if err != nil {
			return window, fmt.Errorf("parsing --since (want YYYY-MM-DD): %w", err)
		}
		window.Start = t
	}
	if until != "" {
		t, err := time.Parse("2006-01-02", until)
		if err != nil {
			return window, fmt.Errorf("parsing --until (want YYYY-MM-DD): %w", err)
		}
		window.End = t
	}
	return window, nil
}

func printHypotheses(hypotheses []types.DiscoveryHypothesis) {
	if len(hypotheses) == 0 {
		fmt.Println("No hypotheses found.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-12s  %-8s  %-8s  %-7s  %s\n",
		"A", "C", "Score", "Strength", "Bridges", "B resources")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, h := range hypotheses {
		bridges := strings.Join(h.BResourceIDs, ",")
		if len(bridges) > 30 {
			bridges = bridges[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-12s  %-8.4f  %-8.2f  %-7d  %s\n",
			h.AResourceID, h.CResourceID, h.PlausibilityScore, h.PathStrength,
			h.CommonNeighbors, bridges)
	}
	fmt.Fprintf(os.Stdout, "\n%d hypotheses\n", len(hypotheses))
}

// --- hypotheses subcommands ---

var hypothesesCmd = &cobra.Command{
	Use:   "hypotheses",
	Short: "List and validate stored discovery hypotheses",
}

var hypothesesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored hypotheses ranked by plausibility",
	RunE:  runHypothesesList,
}

func runHypothesesList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := graphstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	hypotheses, err := store.ListHypotheses(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hypotheses)
	}
	printHypotheses(hypotheses)
	return nil
}

var hypothesesValidateCmd = &cobra.Command{
	Use:   "validate [hypothesis-id]",
	Short: "Mark a hypothesis as human-reviewed",
	Args:  cobra.ExactArgs(1),
	RunE:  runHypothesesValidate,
}

func runHypothesesValidate(cmd *cobra.Command, args []string) error {
	notes, _ := cmd.Flags().GetString("notes")

	store, err := graphstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ValidateHypothesis(context.Background(), args[0], notes); err != nil {
		return err
	}
	fmt.Printf("validated %s\n", args[0])
	return nil
}

func init() {
	discoverCmd.Flags().StringSlice("a", nil, "endpoint A resource IDs (repeatable)")
	discoverCmd.Flags().StringSlice("c", nil, "endpoint C resource IDs (repeatable)")
	discoverCmd.Flags().Int("hops", 0, "per-side hop bound (default 1)")
	discoverCmd.Flags().Int("limit", 0, "maximum hypotheses (default 20)")
	discoverCmd.Flags().String("since", "", "only consider edges created on or after this date (YYYY-MM-DD)")
	discoverCmd.Flags().String("until", "", "only consider edges created on or before this date (YYYY-MM-DD)")
	discoverCmd.Flags().Bool("persist", false, "store the resulting hypotheses")
	discoverCmd.Flags().Bool("json", false, "output results as JSON")

	hypothesesListCmd.Flags().Int("limit", 0, "maximum hypotheses to list (0 = all)")
	hypothesesListCmd.Flags().Bool("json", false, "output results as JSON")
	hypothesesValidateCmd.Flags().String("notes", "", "reviewer notes")

	hypothesesCmd.AddCommand(hypothesesListCmd)
	hypothesesCmd.AddCommand(hypothesesValidateCmd)

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(hypothesesCmd)
}
