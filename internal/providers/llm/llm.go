package llm

import "context"

type Provider interface {
	// Generate returns the full text completion for a prompt. Calls are
	// single-shot; the handlers await completion before responding.
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}
