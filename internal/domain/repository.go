package domain

import (
	"context"
)

// Chat message roles understood by the upstream provider
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatMessage is one role/content pair of a prompt
type ChatMessage struct {
	Role    string
	Content string
}

// ChatRequest is a complete prompt for one gateway operation
type ChatRequest struct {
	Operation string // summarize, match, generate-proposal
	Messages  []ChatMessage
}

// ChatCompleter defines the interface for the upstream chat-completion API
type ChatCompleter interface {
	// Complete sends the prompt and returns the first choice's content
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// CredentialChecker reports whether the upstream credential is configured
type CredentialChecker interface {
	Ready() error
}

// RateLimiter decides whether a caller identified by key may proceed
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// TextExtractor pulls plain text out of a document
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// DocumentStore keeps uploaded documents and returns the stored path
type DocumentStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}
