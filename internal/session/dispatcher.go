package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/mathmentor/internal/mailer"
	"github.com/abhisek/mathmentor/internal/store"
)

// SummaryRecorder records summary dispatch attempts.
type SummaryRecorder interface {
	AppendSummaryEvent(ctx context.Context, data store.SummaryEventData) error
}

// SummaryInput is what the dispatcher needs to send one summary.
type SummaryInput struct {
	SessionID  string
	Stats      Stats
	Topic      string
	Difficulty string
	To         string
}

// Dispatcher sends the end-of-session summary at most once per session.
//
// Dispatch is a no-op when nothing was answered, when the session has no
// start time or when there is no recipient. A successful send marks the
// session; a failed send leaves it unmarked so the caller may retry.
type Dispatcher struct {
	sender   mailer.Sender
	recorder SummaryRecorder
	now      func() time.Time

	mu   sync.Mutex
	sent bool
}

// NewDispatcher creates a dispatcher. recorder may be nil.
func NewDispatcher(sender mailer.Sender, recorder SummaryRecorder) *Dispatcher {
	return &Dispatcher{sender: sender, recorder: recorder, now: time.Now}
}

// Dispatch sends the summary unless it is a no-op. sent reports whether a
// message went out on this call.
func (d *Dispatcher) Dispatch(ctx context.Context, in SummaryInput) (sent bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	to := strings.TrimSpace(in.To)
	if d.sent || in.Stats.Total == 0 || in.Stats.StartTime.IsZero() || to == "" || d.sender == nil {
		return false, nil
	}

	summary := BuildSummary(in.Stats, in.Topic, in.Difficulty, d.now())
	err = d.sender.Send(ctx, summary.Message(to))
	d.record(ctx, in, to, summary, err)
	if err != nil {
		return false, err
	}

	d.sent = true
	return true, nil
}

// Sent reports whether the summary for the current session went out.
func (d *Dispatcher) Sent() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sent
}

// Reset clears the sent flag for a new session.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = false
}

func (d *Dispatcher) record(ctx context.Context, in SummaryInput, to string, s SessionSummary, sendErr error) {
	if d.recorder == nil {
		return
	}
	data := store.SummaryEventData{
		SessionID:    in.SessionID,
		Recipient:    to,
		Topic:        s.Topic,
		Difficulty:   s.Difficulty,
		Correct:      s.Correct,
		Total:        s.Total,
		DurationSecs: int64(s.Duration.Seconds()),
		Success:      sendErr == nil,
	}
	if sendErr != nil {
		data.ErrorMessage = sendErr.Error()
	}
	if err := d.recorder.AppendSummaryEvent(context.WithoutCancel(ctx), data); err != nil {
		slog.WarnContext(ctx, "failed to record summary event", "session_id", in.SessionID, "error", err)
	}
}
