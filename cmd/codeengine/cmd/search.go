package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/standardbeagle/codeengine/internal/config"
	"github.com/standardbeagle/codeengine/internal/engine"
	"github.com/standardbeagle/codeengine/internal/plan"
	"github.com/standardbeagle/codeengine/internal/shape"
)

func newSearchCmd() *cobra.Command {
	var (
		symbolSearch bool
		language     string
		pathGlob     string
		limit        int
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run an ad hoc search against the indexed workspace",
		Long: `Bring the engine up, run a single text or symbol search against the
indexed workspace, print the results, and shut back down.

This brings up the full engine (symbol store, index, watcher) for a
single query, so it is best suited to scripting and one-off lookups;
an editor integration should talk to 'codeengine serve' instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], symbolSearch, language, pathGlob, limit, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&symbolSearch, "symbol", false, "Search symbol names instead of file text")
	cmd.Flags().StringVar(&language, "language", "", "Filter by detected language")
	cmd.Flags().StringVar(&pathGlob, "path", "", "Filter by path glob")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of hits to return")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, symbolSearch bool, language, pathGlob string, limit int, jsonOutput bool) error {
	ctx := cmd.Context()

	root, err := config.FindProjectRoot(".")
	if err != nil {
		root, _ = os.Getwd()
	}

	eng, err := engine.Start(ctx, root, nil)
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer func() { _ = eng.Close(context.Background()) }()

	kind := plan.KindTextSearch
	if symbolSearch {
		kind = plan.KindSymbolSearch
	}

	q := plan.Query{
		Kind:  kind,
		Text:  query,
		Limit: limit,
		Filters: plan.Filters{
			Language: language,
			PathGlob: pathGlob,
		},
	}

	result, err := eng.Bundle.Planner.PlanAndExecute(ctx, q, plan.Options{Now: time.Now()})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	resp, err := eng.Bundle.Shaper.Shape(ctx, result, shape.Options{Mode: shape.ModeAuto, Query: query})
	if err != nil {
		return fmt.Errorf("shape results: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(resp)
	}

	return printSearchResults(cmd, resp)
}

func printSearchResults(cmd *cobra.Command, resp shape.Response) error {
	out := cmd.OutOrStdout()

	if resp.Total == 0 {
		_, err := fmt.Fprintln(out, "No results.")
		return err
	}

	for _, hit := range resp.Hits {
		if _, err := fmt.Fprintf(out, "%s:%d  [%s]  score=%.3f\n", hit.Path, hit.StartLine, hit.Tier, hit.Score); err != nil {
			return err
		}
		for _, snippet := range hit.Snippets {
			if _, err := fmt.Fprintf(out, "    %s\n", snippet); err != nil {
				return err
			}
		}
	}

	if resp.Partial {
		if _, err := fmt.Fprintln(out, "\n(partial results: some branches were cut short by their deadline)"); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(out, "\n%d of %d results\n", len(resp.Hits), resp.Total)
	return err
}
