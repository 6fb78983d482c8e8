package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base",
	Long: `Performs hybrid search over stored documents. Keyword substring
matching and TF-IDF vector similarity run independently and their
results are merged.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	limit := searchLimit
	if limit <= 0 {
		limit = defaultSearchLimit()
	}

	results := knowledgeService.Search(context.Background(), args[0], limit)

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s (%.2f) [%s]\n",
			i+1, results[i].FileName, results[i].Score, results[i].SearchType)
		if len(results[i].Tags) > 0 {
			cmd.Printf("      Tags: %s\n", strings.Join(results[i].Tags, ", "))
		}
		for _, snippet := range results[i].Snippets {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}
	return nil
}
