package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/mathmentor/internal/hints"
	"github.com/abhisek/mathmentor/internal/mailer"
	"github.com/abhisek/mathmentor/internal/problemgen"
	"github.com/abhisek/mathmentor/internal/store"
)

// stubGenerator returns numbered problems whose answer is "42".
type stubGenerator struct {
	mu    sync.Mutex
	n     int
	err   error
	delay chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context, req problemgen.Request) (*problemgen.Problem, error) {
	if g.delay != nil {
		<-g.delay
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.n++
	return &problemgen.Problem{
		ID:         fmt.Sprintf("p%d", g.n),
		Statement:  fmt.Sprintf("Problem %d: what is 6 x 7?", g.n),
		GradeLevel: req.GradeLevel,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Answer:     "42",
		CreatedAt:  time.Now(),
	}, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	msgs []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *recordingMailer) sent() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.msgs...)
}

type recordingEvents struct {
	mu        sync.Mutex
	sessions  []store.SessionEventData
	answers   []store.AnswerEventData
	hints     []store.HintEventData
	summaries []store.SummaryEventData
}

func (r *recordingEvents) AppendSessionEvent(_ context.Context, d store.SessionEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, d)
	return nil
}

func (r *recordingEvents) AppendAnswerEvent(_ context.Context, d store.AnswerEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers = append(r.answers, d)
	return nil
}

func (r *recordingEvents) AppendHintEvent(_ context.Context, d store.HintEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hints = append(r.hints, d)
	return nil
}

func (r *recordingEvents) AppendSummaryEvent(_ context.Context, d store.SummaryEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, d)
	return nil
}

func threeHints() hints.Fetcher {
	return hints.FetcherFunc(func(context.Context, hints.HintRequest) ([]string, error) {
		return []string{"Think of 6 groups of 7.", "7 + 7 + 7 + 7 + 7 + 7", "That adds up to 42."}, nil
	})
}

func failingHints() hints.Fetcher {
	return hints.FetcherFunc(func(context.Context, hints.HintRequest) ([]string, error) {
		return nil, errors.New("hint service down")
	})
}

func testSelection() problemgen.Selection {
	return problemgen.Selection{GradeLevel: "5th Grade", Topic: "Multiplication", Difficulty: "Basic"}
}
