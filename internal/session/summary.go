package session

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/abhisek/mathmentor/internal/mailer"
)

// SummarySubject is the subject line of the session summary email.
const SummarySubject = "Your Child's MathMentorAI Practice Summary"

// SessionSummary holds the figures reported at the end of a session.
type SessionSummary struct {
	Topic      string
	Difficulty string
	Correct    int
	Total      int
	Duration   time.Duration
}

// BuildSummary creates a SessionSummary from the session totals.
func BuildSummary(stats Stats, topic, difficulty string, now time.Time) SessionSummary {
	var d time.Duration
	if !stats.StartTime.IsZero() {
		d = max(now.Sub(stats.StartTime), 0)
	}
	return SessionSummary{
		Topic:      topic,
		Difficulty: difficulty,
		Correct:    stats.Correct,
		Total:      stats.Total,
		Duration:   d,
	}
}

// Accuracy returns Correct/Total, or 0 with no answers.
func (s SessionSummary) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// Score renders the score fraction, e.g. "7 / 10".
func (s SessionSummary) Score() string {
	return fmt.Sprintf("%d / %d", s.Correct, s.Total)
}

// TimeSpent renders the duration in whole minutes, e.g. "15 minutes".
func (s SessionSummary) TimeSpent() string {
	return FormatMinutes(s.Duration)
}

// FormatMinutes rounds d to the nearest minute.
func FormatMinutes(d time.Duration) string {
	m := int(d.Round(time.Minute) / time.Minute)
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}

// Message renders the summary email for the given recipient.
func (s SessionSummary) Message(to string) mailer.Message {
	var text strings.Builder
	text.WriteString("Great work! Here is the summary of the latest practice session:\n\n")
	fmt.Fprintf(&text, "- Topic: %s\n", s.Topic)
	fmt.Fprintf(&text, "- Difficulty: %s\n", s.Difficulty)
	fmt.Fprintf(&text, "- Score: %s\n", s.Score())
	fmt.Fprintf(&text, "- Time Spent: %s\n", s.TimeSpent())

	var body strings.Builder
	body.WriteString("<p>Great work! Here is the summary of the latest practice session:</p>\n<ul>\n")
	fmt.Fprintf(&body, "<li><strong>Topic:</strong> %s</li>\n", html.EscapeString(s.Topic))
	fmt.Fprintf(&body, "<li><strong>Difficulty:</strong> %s</li>\n", html.EscapeString(s.Difficulty))
	fmt.Fprintf(&body, "<li><strong>Score:</strong> %s</li>\n", s.Score())
	fmt.Fprintf(&body, "<li><strong>Time Spent:</strong> %s</li>\n", s.TimeSpent())
	body.WriteString("</ul>\n")

	return mailer.Message{
		To:      to,
		Subject: SummarySubject,
		Text:    text.String(),
		HTML:    body.String(),
	}
}
