package usecase

import (
	"context"
	"testing"

	"github.com/rfpdesk/backend/internal/domain"
	"github.com/rfpdesk/backend/internal/infrastructure/catalog"
	"github.com/stretchr/testify/require"
)

// fakeLLM records the prompt it receives and replies with a canned answer
type fakeLLM struct {
	reply   string
	err     error
	calls   int
	lastReq domain.ChatRequest
}

func (f *fakeLLM) Complete(ctx context.Context, req domain.ChatRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) systemPrompt() string {
	return f.lastReq.Messages[0].Content
}

func (f *fakeLLM) userPrompt() string {
	return f.lastReq.Messages[1].Content
}

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}
