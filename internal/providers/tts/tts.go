package tts

import "context"

type Provider interface {
	// Synthesize renders text as spoken audio (MP3 bytes).
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
	Close() error
}
