package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corpuskit/corpus-cli/internal/core/ports/driven"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question answered from your documents",
	Long: `Retrieves relevant document excerpts, folds them into the question
and sends the result to the configured LLM. Cited sources are appended
to the answer.

Without an LLM configured (set llm.api_key in the config file), the
augmented prompt is printed instead so it can be pasted elsewhere.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if ragService == nil {
		return errors.New("rag service not configured")
	}

	ctx := context.Background()
	question := args[0]

	augmented, sources := ragService.EnhanceQuery(ctx, question)

	if llmService == nil {
		if len(sources) == 0 {
			cmd.Println("No LLM configured and no relevant documents found.")
			cmd.Println("Set llm.api_key in the config file to enable answers.")
			return nil
		}
		cmd.Println(augmented)
		return nil
	}

	var messages []driven.ChatMessage
	if system := askSystemPrompt(); system != "" {
		messages = append(messages, driven.ChatMessage{Role: "system", Content: system})
	}
	messages = append(messages, driven.ChatMessage{Role: "user", Content: augmented})

	answer, err := llmService.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return fmt.Errorf("llm request failed: %w", err)
	}

	cmd.Println(ragService.FormatResponseWithSources(answer, sources))
	return nil
}

// askSystemPrompt loads the system prompt used for the ask command.
// Tests swap it out to avoid touching the filesystem.
var askSystemPrompt = func() string {
	if promptLoader == nil {
		return ""
	}
	prompt, err := promptLoader.Load(driven.PromptAskSystem)
	if err != nil {
		return ""
	}
	return prompt
}

// promptLoader is set during service wiring.
var promptLoader driven.PromptStore
