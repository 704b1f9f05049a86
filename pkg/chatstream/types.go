package chatstream

import "github.com/rhuss/aichat/pkg/api"

// Chat Completions wire types. Only the fields the stream consumer reads
// are declared.

// chatCompletionRequest is the request body for the completions endpoint.
type chatCompletionRequest struct {
	Model       string            `json:"model"`
	Temperature *float64          `json:"temperature,omitempty"`
	MaxTokens   *int              `json:"max_tokens,omitempty"`
	Messages    []api.ChatMessage `json:"messages"`
	Stream      bool              `json:"stream"`
}

// chatCompletionChunk is a single SSE data payload of a streaming response.
type chatCompletionChunk struct {
	ID      string            `json:"id"`
	Object  string            `json:"object"`
	Model   string            `json:"model"`
	Choices []chatChunkChoice `json:"choices"`
}

// chatChunkChoice represents a streaming choice delta.
type chatChunkChoice struct {
	Index        int            `json:"index"`
	Delta        chatChunkDelta `json:"delta"`
	FinishReason *string        `json:"finish_reason"`
}

// chatChunkDelta holds incremental content in a streaming chunk.
type chatChunkDelta struct {
	Role    string  `json:"role,omitempty"`
	Content *string `json:"content,omitempty"`
}

// buildRequest converts the caller's messages and provider settings into
// the wire request. The stream flag is always set.
func buildRequest(messages []api.ChatMessage, p *api.ProviderConfig) chatCompletionRequest {
	req := chatCompletionRequest{
		Model:    p.ModelOrDefault(),
		Messages: messages,
		Stream:   true,
	}
	if p != nil {
		req.Temperature = p.Temperature
		req.MaxTokens = p.MaxTokens
	}
	return req
}
