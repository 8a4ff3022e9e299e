// Package session runs practice sessions: the current problem, its hints,
// answer checking, scoring and the end-of-session summary.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathmentor/internal/docstore"
	"github.com/abhisek/mathmentor/internal/hints"
	"github.com/abhisek/mathmentor/internal/mailer"
	"github.com/abhisek/mathmentor/internal/problemgen"
	"github.com/abhisek/mathmentor/internal/store"
)

// DefaultStudentID is used when the caller does not name a student.
const DefaultStudentID = "default"

// EventRecorder records practice activity. *store.EventRepo satisfies it.
type EventRecorder interface {
	SummaryRecorder
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error
	AppendHintEvent(ctx context.Context, data store.HintEventData) error
}

// Owner identifies whose practice this is.
type Owner struct {
	GuardianID string
	StudentID  string
	Email      string
}

// Config wires a Practice to its collaborators. Only Generator and
// Fetcher are required.
type Config struct {
	Generator problemgen.Generator
	Fetcher   hints.Fetcher

	// Docs persists problem records; nil disables persistence.
	Docs docstore.Store

	// Events records session activity; nil disables recording.
	Events EventRecorder

	// Mailer sends summaries and notifications; nil disables email.
	Mailer mailer.Sender

	// NotifySolutionViewed emails the guardian when a solution is shown.
	NotifySolutionViewed bool

	Now func() time.Time
}

// Attempt is the evaluated answer to the current problem.
type Attempt struct {
	Submitted string `json:"submitted"`
	Correct   bool   `json:"correct"`
}

// AnswerResult is returned by SubmitAnswer.
type AnswerResult struct {
	Correct        bool   `json:"correct"`
	Answer         string `json:"answer"`
	SuggestUpgrade bool   `json:"suggestUpgrade"`
	NextDifficulty string `json:"nextDifficulty,omitempty"`
	Stats          Stats  `json:"stats"`
}

// EndResult is returned by End.
type EndResult struct {
	SummarySent bool  `json:"summarySent"`
	Stats       Stats `json:"stats"`
}

// Practice owns one learner's session. All mutations are serialized and
// applied only after the external call they depend on succeeded.
type Practice struct {
	cfg        Config
	owner      Owner
	hints      *hints.Sequencer
	dispatcher *Dispatcher

	mu             sync.Mutex
	sessionID      string
	problemSeq     uint64
	selection      problemgen.Selection
	studentID      string
	problem        *problemgen.Problem
	attempt        *Attempt
	solutionViewed bool
	tracker        *ScoreTracker
}

// NewPractice starts a practice session for owner.
func NewPractice(ctx context.Context, cfg Config, owner Owner) *Practice {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if owner.StudentID == "" {
		owner.StudentID = DefaultStudentID
	}

	var summaries SummaryRecorder
	if cfg.Events != nil {
		summaries = cfg.Events
	}

	p := &Practice{
		cfg:        cfg,
		owner:      owner,
		hints:      hints.NewSequencer(cfg.Fetcher),
		dispatcher: NewDispatcher(cfg.Mailer, summaries),
		studentID:  owner.StudentID,
	}
	p.dispatcher.now = cfg.Now
	p.startLocked(ctx)
	return p
}

// Owner returns the practice owner.
func (p *Practice) Owner() Owner {
	return p.owner
}

// NewProblem replaces the current problem with a freshly generated one.
// The prior problem, its hints and its attempt are cleared before the
// request is issued, so a failure leaves the practice without a problem.
func (p *Practice) NewProblem(ctx context.Context, sel problemgen.Selection, studentID string) (*problemgen.Problem, error) {
	req, err := problemgen.NewRequest(sel)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.problemSeq++
	seq := p.problemSeq
	p.selection = sel
	if studentID != "" {
		p.studentID = studentID
	}
	p.problem = nil
	p.attempt = nil
	p.solutionViewed = false
	p.hints.Clear()
	p.mu.Unlock()

	problem, err := p.cfg.Generator.Generate(ctx, req)
	if err != nil {
		slog.WarnContext(ctx, "problem generation failed",
			"guardian_id", p.owner.GuardianID,
			"topic", sel.Topic,
			"error", err,
		)
		return nil, wrapUser(ErrGenerationFailed, err)
	}

	p.mu.Lock()
	if p.problemSeq != seq {
		p.mu.Unlock()
		return nil, ErrSuperseded
	}
	p.problem = problem
	p.hints.Reset(hints.HintRequest{
		ProblemID:        problem.ID,
		GradeLevel:       problem.GradeLevel,
		Topic:            problem.Topic,
		DifficultyLevel:  problem.Difficulty,
		ProblemStatement: problem.Statement,
	})
	path := p.problemPathLocked()
	p.mu.Unlock()

	p.persist(ctx, path, problemRecord(problem))
	return problem, nil
}

// RequestHint reveals the next hint of the current problem.
func (p *Practice) RequestHint(ctx context.Context) (hints.View, error) {
	view, err := p.hints.RequestHint(ctx)
	if err != nil {
		return hints.View{}, p.hintError(ctx, err)
	}
	problem, path, err := p.servedBy(view)
	if err != nil {
		return hints.View{}, err
	}

	p.persist(ctx, path, docstore.Record{"hintsRevealed": view.Revealed})
	p.recordHint(ctx, problem.ID, view, false)
	return view, nil
}

// RequestSolution reveals every hint of the current problem.
func (p *Practice) RequestSolution(ctx context.Context) (hints.View, error) {
	view, err := p.hints.RequestSolution(ctx)
	if err != nil {
		return hints.View{}, p.hintError(ctx, err)
	}

	p.mu.Lock()
	if p.problem == nil || p.problem.ID != view.ProblemID {
		p.mu.Unlock()
		return hints.View{}, ErrSuperseded
	}
	problem, path := p.problem, p.problemPathLocked()
	first := !p.solutionViewed
	p.solutionViewed = true
	p.mu.Unlock()

	p.persist(ctx, path, docstore.Record{"hintsRevealed": view.Revealed, "solutionViewed": true})
	p.recordHint(ctx, problem.ID, view, true)
	if first {
		p.notifySolutionViewed(ctx, problem)
	}
	return view, nil
}

// SubmitAnswer checks text against the current problem. The first
// non-empty submission locks the problem.
func (p *Practice) SubmitAnswer(ctx context.Context, text string) (AnswerResult, error) {
	p.mu.Lock()
	if p.problem == nil {
		p.mu.Unlock()
		return AnswerResult{}, ErrNoProblem
	}
	if p.attempt != nil {
		p.mu.Unlock()
		return AnswerResult{}, ErrAlreadyAnswered
	}
	if strings.TrimSpace(text) == "" {
		p.mu.Unlock()
		return AnswerResult{}, ErrEmptyAnswer
	}

	problem := p.problem
	correct := problemgen.CheckAnswer(text, problem.Answer)
	p.attempt = &Attempt{Submitted: text, Correct: correct}
	suggest := p.tracker.Record(correct)

	result := AnswerResult{
		Correct:        correct,
		Answer:         problem.Answer,
		SuggestUpgrade: suggest,
		Stats:          p.tracker.Session(),
	}
	if suggest {
		next := problemgen.Difficulty(problem.Difficulty).Next()
		if string(next) != problem.Difficulty {
			result.NextDifficulty = string(next)
		}
	}
	sessionID := p.sessionID
	path := p.problemPathLocked()
	p.mu.Unlock()

	p.persist(ctx, path, docstore.Record{"submittedAnswer": text, "isCorrect": correct})
	p.recordAnswer(ctx, sessionID, problem, text, correct, suggest)
	return result, nil
}

// SendSummary emails the session summary to to. It is a no-op when
// nothing was answered or the summary already went out for this session.
func (p *Practice) SendSummary(ctx context.Context, to string) (bool, error) {
	p.mu.Lock()
	in := SummaryInput{
		SessionID:  p.sessionID,
		Stats:      p.tracker.Session(),
		Topic:      p.selection.Topic,
		Difficulty: p.selection.Difficulty,
		To:         to,
	}
	p.mu.Unlock()

	sent, err := p.dispatcher.Dispatch(ctx, in)
	if err != nil {
		return false, fmt.Errorf("send summary: %w", err)
	}
	return sent, nil
}

// End dispatches the summary to to and starts a new session. If the
// summary fails to send, the session is left intact so End can be retried.
func (p *Practice) End(ctx context.Context, to string) (EndResult, error) {
	sent, err := p.SendSummary(ctx, to)
	if err != nil {
		return EndResult{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	result := EndResult{SummarySent: sent, Stats: p.tracker.Session()}
	p.endLocked(ctx)
	p.startLocked(ctx)
	return result, nil
}

// Close records the end of the session without sending anything.
func (p *Practice) Close(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endLocked(ctx)
}

// ProblemView is the client-facing form of a problem. The answer is only
// included once the problem has been answered.
type ProblemView struct {
	ID         string `json:"id"`
	Statement  string `json:"statement"`
	GradeLevel string `json:"gradeLevel"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Answer     string `json:"answer,omitempty"`
}

// Snapshot is a point-in-time copy of the practice state.
type Snapshot struct {
	SessionID      string               `json:"sessionId"`
	StudentID      string               `json:"studentId"`
	Selection      problemgen.Selection `json:"selection"`
	Problem        *ProblemView         `json:"problem,omitempty"`
	Hints          hints.View           `json:"hints"`
	Attempt        *Attempt             `json:"attempt,omitempty"`
	SolutionViewed bool                 `json:"solutionViewed"`
	Stats          Stats                `json:"stats"`
	WindowCorrect  int                  `json:"windowCorrect"`
	WindowTotal    int                  `json:"windowTotal"`
	SummarySent    bool                 `json:"summarySent"`
}

// Snapshot returns the current state.
func (p *Practice) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		SessionID:      p.sessionID,
		StudentID:      p.studentID,
		Selection:      p.selection,
		Hints:          p.hints.View(),
		SolutionViewed: p.solutionViewed,
		Stats:          p.tracker.Session(),
		SummarySent:    p.dispatcher.Sent(),
	}
	s.WindowCorrect, s.WindowTotal = p.tracker.Window()
	if p.problem != nil {
		s.Problem = &ProblemView{
			ID:         p.problem.ID,
			Statement:  p.problem.Statement,
			GradeLevel: p.problem.GradeLevel,
			Topic:      p.problem.Topic,
			Difficulty: p.problem.Difficulty,
		}
		if p.attempt != nil {
			s.Problem.Answer = p.problem.Answer
		}
	}
	if p.attempt != nil {
		a := *p.attempt
		s.Attempt = &a
	}
	return s
}

// servedBy returns the problem a hint view was produced for, or
// ErrSuperseded when a newer problem replaced it after the reveal.
func (p *Practice) servedBy(view hints.View) (*problemgen.Problem, docstore.Path, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.problem == nil || p.problem.ID != view.ProblemID {
		return nil, nil, ErrSuperseded
	}
	return p.problem, p.problemPathLocked(), nil
}

func (p *Practice) hintError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, hints.ErrNoProblem):
		return ErrNoProblem
	case errors.Is(err, hints.ErrProblemChanged):
		return ErrSuperseded
	}
	slog.WarnContext(ctx, "hint generation failed", "guardian_id", p.owner.GuardianID, "error", err)
	return wrapUser(ErrHintsFailed, err)
}

func (p *Practice) startLocked(ctx context.Context) {
	now := p.cfg.Now()
	p.sessionID = uuid.NewString()
	p.problemSeq++
	p.problem = nil
	p.attempt = nil
	p.solutionViewed = false
	p.hints.Clear()
	p.dispatcher.Reset()
	if p.tracker == nil {
		p.tracker = NewScoreTracker(now)
	} else {
		p.tracker.Reset(now)
	}

	p.recordSession(ctx, store.SessionEventData{
		SessionID:  p.sessionID,
		GuardianID: p.owner.GuardianID,
		Action:     store.SessionActionStart,
	})
}

func (p *Practice) endLocked(ctx context.Context) {
	stats := p.tracker.Session()
	p.recordSession(ctx, store.SessionEventData{
		SessionID:         p.sessionID,
		GuardianID:        p.owner.GuardianID,
		Action:            store.SessionActionEnd,
		QuestionsAnswered: stats.Total,
		CorrectAnswers:    stats.Correct,
		DurationSecs:      int64(p.cfg.Now().Sub(stats.StartTime).Seconds()),
	})
}

func (p *Practice) problemPathLocked() docstore.Path {
	if p.problem == nil || p.owner.GuardianID == "" {
		return nil
	}
	return docstore.ProblemPath(p.owner.GuardianID, p.studentID, p.problem.ID)
}

func problemRecord(problem *problemgen.Problem) docstore.Record {
	rec, err := docstore.Encode(docstore.ProblemRecord{
		ID:         problem.ID,
		Statement:  problem.Statement,
		GradeLevel: problem.GradeLevel,
		Topic:      problem.Topic,
		Difficulty: problem.Difficulty,
		Answer:     problem.Answer,
		CreatedAt:  problem.CreatedAt,
	})
	if err != nil {
		return docstore.Record{"id": problem.ID}
	}
	return rec
}

// persist merges fields into the problem document. Failures are logged.
func (p *Practice) persist(ctx context.Context, path docstore.Path, fields docstore.Record) {
	if p.cfg.Docs == nil || path == nil {
		return
	}
	rec := docstore.MergeRecords(fields, docstore.Record{
		"updatedAt": p.cfg.Now().UTC().Format(time.RFC3339Nano),
	})
	if err := p.cfg.Docs.Write(context.WithoutCancel(ctx), path, rec, docstore.WriteOptions{Merge: true}); err != nil {
		slog.WarnContext(ctx, "failed to persist problem record", "path", path.String(), "error", err)
	}
}

func (p *Practice) notifySolutionViewed(ctx context.Context, problem *problemgen.Problem) {
	if !p.cfg.NotifySolutionViewed || p.cfg.Mailer == nil || p.owner.Email == "" {
		return
	}
	msg := mailer.Message{
		To:      p.owner.Email,
		Subject: fmt.Sprintf("Solution Viewed for: %s Problem", problem.Topic),
		Text: fmt.Sprintf("The solution was viewed for the following problem:\n\n%s\n\nGrade Level: %s\nDifficulty: %s\nAnswer: %s\n",
			problem.Statement, problem.GradeLevel, problem.Difficulty, problem.Answer),
	}
	if err := p.cfg.Mailer.Send(ctx, msg); err != nil {
		slog.WarnContext(ctx, "failed to send solution-viewed notification", "to", p.owner.Email, "error", err)
	}
}

func (p *Practice) recordSession(ctx context.Context, data store.SessionEventData) {
	if p.cfg.Events == nil {
		return
	}
	if err := p.cfg.Events.AppendSessionEvent(context.WithoutCancel(ctx), data); err != nil {
		slog.WarnContext(ctx, "failed to record session event", "session_id", data.SessionID, "error", err)
	}
}

func (p *Practice) recordAnswer(ctx context.Context, sessionID string, problem *problemgen.Problem, text string, correct, suggest bool) {
	if p.cfg.Events == nil {
		return
	}
	data := store.AnswerEventData{
		SessionID:        sessionID,
		ProblemID:        problem.ID,
		GradeLevel:       problem.GradeLevel,
		Topic:            problem.Topic,
		Difficulty:       problem.Difficulty,
		Statement:        problem.Statement,
		CanonicalAnswer:  problem.Answer,
		SubmittedAnswer:  text,
		Correct:          correct,
		HintsRevealed:    p.hints.View().Revealed,
		UpgradeSuggested: suggest,
	}
	if err := p.cfg.Events.AppendAnswerEvent(context.WithoutCancel(ctx), data); err != nil {
		slog.WarnContext(ctx, "failed to record answer event", "session_id", sessionID, "error", err)
	}
}

func (p *Practice) recordHint(ctx context.Context, problemID string, view hints.View, solution bool) {
	if p.cfg.Events == nil {
		return
	}
	p.mu.Lock()
	sessionID := p.sessionID
	p.mu.Unlock()

	data := store.HintEventData{
		SessionID: sessionID,
		ProblemID: problemID,
		Revealed:  view.Revealed,
		Total:     view.Total,
		Solution:  solution,
	}
	if err := p.cfg.Events.AppendHintEvent(context.WithoutCancel(ctx), data); err != nil {
		slog.WarnContext(ctx, "failed to record hint event", "session_id", sessionID, "error", err)
	}
}
