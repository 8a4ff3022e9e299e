// Package llm is the language-model transport behind problem generation
// and hints: provider clients, middleware and the request audit log.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion.
type Provider interface {
	// Generate runs req. With a Schema the provider asks for structured
	// output and Response.Content is JSON that matched it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model, after alias resolution.
	ModelID() string
}

// Request is a single generation call.
type Request struct {
	System   string
	Messages []Message

	// Schema requests structured output; nil returns plain text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]; zero leaves the provider default.
	Temperature float64
}

// Prompt builds the one-turn request that problem generation and hints
// both send.
func Prompt(system, user string, schema *Schema, maxTokens int, temperature float64) Request {
	return Request{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: user}},
		Schema:      schema,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema for structured output. Name doubles as the
// OpenAI response-format name and the validator cache key, so it must be
// unique per definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a completed generation.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is what served the call, which may be a dated snapshot of
	// ModelID.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Usage is the token count of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
