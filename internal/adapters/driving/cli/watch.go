package cli

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/corpuskit/corpus-cli/internal/core/domain"
	"github.com/corpuskit/corpus-cli/internal/core/ports/driving"
	"github.com/corpuskit/corpus-cli/internal/logger"
	"github.com/corpuskit/corpus-cli/internal/parsers"
)

var watchCategory string

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and keep it indexed",
	Long: `Watches a directory for changes. Supported files are added to the
knowledge base when created or modified and removed when deleted. The
file path serves as the document id, so edits replace rather than
duplicate. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchCategory, "category", "", "category for ingested documents")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (ctrl-c to stop)\n", dir)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleWatchEvent(ctx, cmd, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func handleWatchEvent(ctx context.Context, cmd *cobra.Command, event fsnotify.Event) {
	path := event.Name

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		if !supportedExtension(path) {
			return
		}
		_, err := knowledgeService.AddDocument(ctx, driving.AddDocumentRequest{
			FileID:   path,
			FilePath: path,
			Category: watchCategory,
		})
		if err != nil {
			logger.Warn("Ingest %s: %v", path, err)
			return
		}
		cmd.Printf("Indexed %s\n", path)

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		err := knowledgeService.RemoveDocument(ctx, path)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Remove %s: %v", path, err)
			return
		}
		if err == nil {
			cmd.Printf("Removed %s\n", path)
		}
	}
}

// watchRegistry answers which extensions have parsers, guarding against
// indexing editor swap files and other unsupported formats.
var watchRegistry = parsers.Default()

func supportedExtension(path string) bool {
	return watchRegistry.Supported(strings.ToLower(filepath.Ext(path)))
}
