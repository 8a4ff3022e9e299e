package llm

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
)

// Reply is one scripted outcome of a Generate call.
type Reply struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// ScriptedProvider replays replies in order and records every request.
// Content is returned as scripted, without schema validation. Once the
// script runs out it fails with KindUnavailable.
type ScriptedProvider struct {
	mu       sync.Mutex
	replies  []Reply
	requests []Request
}

// NewScriptedProvider creates a provider that replays replies.
func NewScriptedProvider(replies ...Reply) *ScriptedProvider {
	return &ScriptedProvider{replies: replies}
}

func (s *ScriptedProvider) Generate(_ context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return nil, newError(KindUnavailable, errors.New("script exhausted"))
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	return &Response{Content: r.Content, Usage: r.Usage, Model: s.ModelID(), StopReason: StopEnd}, nil
}

func (s *ScriptedProvider) ModelID() string {
	return ProviderMock
}

// Push appends replies to the script.
func (s *ScriptedProvider) Push(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

// Requests returns a copy of the requests seen so far.
func (s *ScriptedProvider) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}
