package providers

import (
	"context"

	"github.com/wecare/hospitalbot/internal/domain/entities"
)

// CompletionProvider sends a single free-text prompt to a generative model.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (entities.Completion, error)

	// Model returns the model identifier used for requests.
	Model() string
}
