package mood

import "context"

// CompletionClient generates a structured completion for a prompt. A nil
// client disables the generative path entirely.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
