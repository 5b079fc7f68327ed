// Package llm provides the client abstraction for remote chat-completion APIs.
package llm

import "context"

// Message is a single chat message sent to the remote model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes one chat-completion call.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Response is the structured outcome of a successful chat-completion
// call. Raw carries the full serialized payload for the ledger.
type Response struct {
	Content        string
	Refusal        string
	FinishReason   string
	Raw            []byte
	PromptTokens   int64
	ResponseTokens int64
	HasUsage       bool
}

// Client performs one chat-completion call. Implementations do not
// retry; the caller owns the retry policy. Any fake obeying this
// contract substitutes in tests.
type Client interface {
	CreateChatCompletion(ctx context.Context, req Request) (*Response, error)
}

// ChatRequest builds the message list for a system instruction and a
// user prompt.
func ChatRequest(model, systemMessage, prompt string) Request {
	return Request{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: prompt},
		},
	}
}
