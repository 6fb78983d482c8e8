package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	stats, err := knowledgeService.Statistics(context.Background())
	if err != nil {
		return fmt.Errorf("statistics: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal statistics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Knowledge Base")
	cmd.Println("==============")
	cmd.Printf("Documents:  %d\n", stats.TotalDocuments)
	cmd.Printf("Words:      %d\n", stats.TotalWords)
	cmd.Printf("Characters: %d\n", stats.TotalCharacters)

	vector := "not built"
	if stats.VectorIndexReady {
		vector = "ready"
	}
	cmd.Printf("Vector index: %s\n", vector)

	if len(stats.Categories) > 0 {
		cmd.Println()
		cmd.Println("Categories:")
		for _, name := range sortedKeys(stats.Categories) {
			cmd.Printf("  %s: %d\n", name, stats.Categories[name])
		}
	}
	if len(stats.Formats) > 0 {
		cmd.Println()
		cmd.Println("Formats:")
		for _, name := range sortedKeys(stats.Formats) {
			cmd.Printf("  %s: %d\n", name, stats.Formats[name])
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
