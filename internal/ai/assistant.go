package ai

import (
	"context"
)

const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Completer sends a prompt to a text-completion backend and returns its free-text answer.
// Implementations report a failed call with company.ErrBackendUnavailable.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}
