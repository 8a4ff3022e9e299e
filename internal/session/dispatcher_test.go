package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryInput() SummaryInput {
	return SummaryInput{
		SessionID:  "s1",
		Stats:      Stats{Correct: 3, Total: 4, StartTime: time.Now().Add(-5 * time.Minute)},
		Topic:      "Division",
		Difficulty: "Basic",
		To:         "parent@example.com",
	}
}

func TestDispatcher_SendsOnce(t *testing.T) {
	m := &recordingMailer{}
	ev := &recordingEvents{}
	d := NewDispatcher(m, ev)

	sent, err := d.Dispatch(t.Context(), summaryInput())
	require.NoError(t, err)
	assert.True(t, sent)
	assert.True(t, d.Sent())

	sent, err = d.Dispatch(t.Context(), summaryInput())
	require.NoError(t, err)
	assert.False(t, sent)

	msgs := m.sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "parent@example.com", msgs[0].To)
	assert.Contains(t, msgs[0].Text, "Score: 3 / 4")
	assert.Contains(t, msgs[0].Text, "Time Spent: 5 minutes")

	require.Len(t, ev.summaries, 1)
	assert.True(t, ev.summaries[0].Success)

	d.Reset()
	sent, err = d.Dispatch(t.Context(), summaryInput())
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestDispatcher_NoOps(t *testing.T) {
	tests := map[string]func(*SummaryInput){
		"nothing answered": func(in *SummaryInput) { in.Stats.Total, in.Stats.Correct = 0, 0 },
		"no start time":    func(in *SummaryInput) { in.Stats.StartTime = time.Time{} },
		"no recipient":     func(in *SummaryInput) { in.To = "  " },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			m := &recordingMailer{}
			d := NewDispatcher(m, nil)
			in := summaryInput()
			mutate(&in)

			sent, err := d.Dispatch(t.Context(), in)
			require.NoError(t, err)
			assert.False(t, sent)
			assert.Empty(t, m.sent())
			assert.False(t, d.Sent())
		})
	}
}

func TestDispatcher_FailureAllowsRetry(t *testing.T) {
	m := &recordingMailer{err: errors.New("smtp down")}
	ev := &recordingEvents{}
	d := NewDispatcher(m, ev)

	sent, err := d.Dispatch(t.Context(), summaryInput())
	require.Error(t, err)
	assert.False(t, sent)
	assert.False(t, d.Sent())
	require.Len(t, ev.summaries, 1)
	assert.False(t, ev.summaries[0].Success)
	assert.Equal(t, "smtp down", ev.summaries[0].ErrorMessage)

	m.err = nil
	sent, err = d.Dispatch(t.Context(), summaryInput())
	require.NoError(t, err)
	assert.True(t, sent)
}
