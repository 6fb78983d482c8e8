package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driving"
)

var (
	addID       string
	addName     string
	addTags     []string
	addCategory string

	listJSON bool
)

var addCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Add a document to the knowledge base",
	Long: `Parses the file at the given path and stores its content. Re-adding
with the same --id replaces the stored content and metadata.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Remove a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a document's content and metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var tagCmd = &cobra.Command{
	Use:   "tag [doc-id] [tags...]",
	Short: "Replace a document's tags",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTag,
}

var categoryCmd = &cobra.Command{
	Use:   "category [doc-id] [category]",
	Short: "Set a document's category",
	Args:  cobra.ExactArgs(2),
	RunE:  runCategory,
}

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "document id (generated when omitted)")
	addCmd.Flags().StringVar(&addName, "name", "", "display name (defaults to the file name)")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "comma-separated tags")
	addCmd.Flags().StringVar(&addCategory, "category", "", "category label")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(categoryCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	fileID := addID
	if fileID == "" {
		fileID = uuid.NewString()
	}

	receipt, err := knowledgeService.AddDocument(context.Background(), driving.AddDocumentRequest{
		FileID:   fileID,
		FileName: addName,
		FilePath: args[0],
		Tags:     addTags,
		Category: addCategory,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Added %s (%d words, %d characters)\n",
		receipt.FileID, receipt.WordCount, receipt.CharCount)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	if err := knowledgeService.RemoveDocument(context.Background(), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document not found: %s", args[0])
		}
		return err
	}

	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	docs, err := knowledgeService.ListDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents stored.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].FileID)
		cmd.Printf("    Name: %s\n", docs[i].FileName)
		if docs[i].Category != "" {
			cmd.Printf("    Category: %s\n", docs[i].Category)
		}
		if len(docs[i].Tags) > 0 {
			cmd.Printf("    Tags: %s\n", strings.Join(docs[i].Tags, ", "))
		}
		cmd.Printf("    Words: %d\n", docs[i].Metadata.WordCount)
		cmd.Println()
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	doc, err := knowledgeService.GetDocument(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document not found: %s", args[0])
		}
		return err
	}

	cmd.Printf("ID: %s\n", doc.FileID)
	cmd.Printf("Name: %s\n", doc.FileName)
	cmd.Printf("Path: %s\n", doc.FilePath)
	if doc.Category != "" {
		cmd.Printf("Category: %s\n", doc.Category)
	}
	if len(doc.Tags) > 0 {
		cmd.Printf("Tags: %s\n", strings.Join(doc.Tags, ", "))
	}
	cmd.Printf("Format: %s\n", doc.Metadata.Format)
	cmd.Printf("Words: %d  Characters: %d  Lines: %d\n",
		doc.Metadata.WordCount, doc.Metadata.CharCount, doc.Metadata.LineCount)
	cmd.Printf("Added: %s  Updated: %s\n",
		doc.CreatedAt.Format("2006-01-02 15:04"), doc.UpdatedAt.Format("2006-01-02 15:04"))
	cmd.Println()
	cmd.Println(doc.Content)
	return nil
}

func runTag(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	fileID, tags := args[0], args[1:]
	if err := knowledgeService.UpdateTags(context.Background(), fileID, tags); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document not found: %s", fileID)
		}
		return err
	}

	if len(tags) == 0 {
		cmd.Printf("Cleared tags on %s\n", fileID)
	} else {
		cmd.Printf("Tagged %s: %s\n", fileID, strings.Join(tags, ", "))
	}
	return nil
}

func runCategory(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	fileID, category := args[0], args[1]
	if err := knowledgeService.UpdateCategory(context.Background(), fileID, category); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document not found: %s", fileID)
		}
		return err
	}

	cmd.Printf("Set category of %s to %s\n", fileID, category)
	return nil
}
