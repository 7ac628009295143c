package llm

import (
	"context"
	"errors"

	"diet-planner/internal/shared"
)

// Transport-level failure taxonomy. The generation pipeline recovers every
// one of these into the template fallback; none is surfaced to callers.
var (
	// ErrAPIKeyMissing means no credential is configured. Clients must return
	// it before attempting any network I/O.
	ErrAPIKeyMissing = errors.New("llm api key missing")

	// ErrTransport covers connection failures and non-success HTTP statuses.
	ErrTransport = errors.New("llm transport error")

	// ErrMalformedEnvelope means the response JSON lacked the expected
	// candidate/content/text nesting.
	ErrMalformedEnvelope = errors.New("llm response envelope malformed")
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
