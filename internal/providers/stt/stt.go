package stt

import "context"

// Provider turns one recorded utterance into text. language is a BCP-47
// tag; implementations pick a default when it is empty.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, language string) (text string, confidence float64, err error)
	Close() error
}
