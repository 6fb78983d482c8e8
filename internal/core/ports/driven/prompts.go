package driven

// PromptStore provides access to the text templates used when building
// augmented prompts. Implementations may load them from user-editable
// files or fall back to embedded defaults.
type PromptStore interface {
	// Load returns the template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached templates, forcing fresh loads on next
	// access. Useful when templates have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptContextPreamble opens the knowledge context block.
	// No format placeholders.
	PromptContextPreamble = "context_preamble"

	// PromptContextClosing restates the user's question after the
	// document excerpts. Expects a %s placeholder for the query.
	PromptContextClosing = "context_closing"

	// PromptAskSystem is the system prompt for the ask command.
	// No format placeholders.
	PromptAskSystem = "ask_system"
)
