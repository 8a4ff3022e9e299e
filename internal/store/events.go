package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // LLM events only; empty matches all
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM calls for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM calls for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// Session actions recorded in practice_session_events.
const (
	SessionActionStart = "start"
	SessionActionEnd   = "end"
)

// SessionEventData marks the start or end of a practice session.
type SessionEventData struct {
	SessionID         string
	GuardianID        string
	Action            string
	QuestionsAnswered int
	CorrectAnswers    int
	DurationSecs      int64
}

// AnswerEventData records one evaluated answer.
type AnswerEventData struct {
	SessionID        string
	ProblemID        string
	GradeLevel       string
	Topic            string
	Difficulty       string
	Statement        string
	CanonicalAnswer  string
	SubmittedAnswer  string
	Correct          bool
	HintsRevealed    int
	UpgradeSuggested bool
}

// HintEventData records a hint reveal or a full solution reveal.
type HintEventData struct {
	SessionID string
	ProblemID string
	Revealed  int
	Total     int
	Solution  bool
}

// SummaryEventData records a summary email attempt.
type SummaryEventData struct {
	SessionID    string
	Recipient    string
	Topic        string
	Difficulty   string
	Correct      int
	Total        int
	DurationSecs int64
	Success      bool
	ErrorMessage string
}

// TopicStats is answer accuracy grouped by topic.
type TopicStats struct {
	Topic    string
	Answered int
	Correct  int
}

// EventRepo appends and queries globally sequenced events.
type EventRepo struct {
	store *Store
}

func (r *EventRepo) append(ctx context.Context, table string, cols []string, vals ...any) error {
	seq, err := r.store.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ins := r.store.builder().Insert(table).
		Columns(append([]string{colSequence, colCreatedAt}, cols...)...).
		Values(append([]any{seq, time.Now().UTC()}, vals...)...)
	if _, err := r.store.exec(ctx, ins); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// AppendLLMRequest records an LLM API call.
func (r *EventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.append(ctx, tableLLMEvents,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms",
			"success", "error_message", "request_body", "response_body"},
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs,
		data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
}

// AppendSessionEvent records a practice session start or end.
func (r *EventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.append(ctx, tableSessions,
		[]string{"session_id", "guardian_id", "action", "questions_answered", "correct_answers", "duration_secs"},
		data.SessionID, data.GuardianID, data.Action, data.QuestionsAnswered, data.CorrectAnswers, data.DurationSecs,
	)
}

// AppendAnswerEvent records an evaluated answer.
func (r *EventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	return r.append(ctx, tableAnswers,
		[]string{"session_id", "problem_id", "grade_level", "topic", "difficulty", "statement",
			"canonical_answer", "submitted_answer", "correct", "hints_revealed", "upgrade_suggested"},
		data.SessionID, data.ProblemID, data.GradeLevel, data.Topic, data.Difficulty, data.Statement,
		data.CanonicalAnswer, data.SubmittedAnswer, data.Correct, data.HintsRevealed, data.UpgradeSuggested,
	)
}

// AppendHintEvent records a hint or solution reveal.
func (r *EventRepo) AppendHintEvent(ctx context.Context, data HintEventData) error {
	return r.append(ctx, tableHints,
		[]string{"session_id", "problem_id", "revealed", "total", "solution"},
		data.SessionID, data.ProblemID, data.Revealed, data.Total, data.Solution,
	)
}

// AppendSummaryEvent records a summary email attempt.
func (r *EventRepo) AppendSummaryEvent(ctx context.Context, data SummaryEventData) error {
	return r.append(ctx, tableSummaries,
		[]string{"session_id", "recipient", "topic", "difficulty", "correct", "total",
			"duration_secs", "success", "error_message"},
		data.SessionID, data.Recipient, data.Topic, data.Difficulty, data.Correct, data.Total,
		data.DurationSecs, data.Success, data.ErrorMessage,
	)
}

var llmEventColumns = []string{
	"id", colSequence, colCreatedAt, "provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

func scanLLMEvent(row interface{ Scan(...any) error }) (*LLMRequestEvent, error) {
	var e LLMRequestEvent
	err := row.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
		&e.RequestBody, &e.ResponseBody)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// QueryLLMEvents returns LLM events, newest first.
func (r *EventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	b := r.store.builder()
	sel := b.Select(llmEventColumns...).From(b.Table(tableLLMEvents)).OrderBy(entsql.Desc(colSequence))
	if opts.Purpose != "" {
		sel = sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// GetLLMEvent returns the event with the given row ID, or nil if absent.
func (r *EventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	b := r.store.builder()
	query, args := b.Select(llmEventColumns...).From(b.Table(tableLLMEvents)).Where(entsql.EQ("id", id)).Query()

	e, err := scanLLMEvent(r.store.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	return e, nil
}

// LLMUsageByPurpose aggregates token usage per purpose label.
func (r *EventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	b := r.store.builder()
	query, args := b.Select(
		"purpose",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).From(b.Table(tableLLMEvents)).GroupBy("purpose").OrderBy("purpose").Query()

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []PurposeUsage
	for rows.Next() {
		var u PurposeUsage
		var in, outTok int64
		var avg float64
		if err := rows.Scan(&u.Purpose, &u.Calls, &in, &outTok, &avg); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.InputTokens, u.OutputTokens, u.AvgLatencyMs = int(in), int(outTok), int64(avg)
		out = append(out, u)
	}
	return out, rows.Err()
}

// LLMUsageByModel aggregates token usage per model for cost estimates.
func (r *EventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	b := r.store.builder()
	query, args := b.Select(
		"model",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
	).From(b.Table(tableLLMEvents)).GroupBy("model").OrderBy("model").Query()

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		var in, outTok int64
		if err := rows.Scan(&u.Model, &u.Calls, &in, &outTok); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.InputTokens, u.OutputTokens = int(in), int(outTok)
		out = append(out, u)
	}
	return out, rows.Err()
}

// AnswerStatsByTopic returns answered/correct counts per topic.
func (r *EventRepo) AnswerStatsByTopic(ctx context.Context) ([]TopicStats, error) {
	b := r.store.builder()
	query, args := b.Select("topic", "correct").From(b.Table(tableAnswers)).OrderBy("topic").Query()

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer stats: %w", err)
	}
	defer rows.Close()

	var out []TopicStats
	for rows.Next() {
		var topic string
		var correct bool
		if err := rows.Scan(&topic, &correct); err != nil {
			return nil, fmt.Errorf("scan answer stats: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Topic != topic {
			out = append(out, TopicStats{Topic: topic})
		}
		last := &out[len(out)-1]
		last.Answered++
		if correct {
			last.Correct++
		}
	}
	return out, rows.Err()
}
