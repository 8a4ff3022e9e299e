package session

import (
	"strings"
	"testing"
	"time"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 minutes"},
		{20 * time.Second, "0 minutes"},
		{40 * time.Second, "1 minute"},
		{15 * time.Minute, "15 minutes"},
		{15*time.Minute + 31*time.Second, "16 minutes"},
	}
	for _, tt := range tests {
		if got := FormatMinutes(tt.d); got != tt.want {
			t.Errorf("FormatMinutes(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestBuildSummary(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := BuildSummary(Stats{Correct: 7, Total: 10, StartTime: start}, "Fractions", "Moderate", start.Add(15*time.Minute))

	if s.Score() != "7 / 10" {
		t.Errorf("Score() = %q", s.Score())
	}
	if s.TimeSpent() != "15 minutes" {
		t.Errorf("TimeSpent() = %q", s.TimeSpent())
	}

	msg := s.Message("parent@example.com")
	if msg.Subject != SummarySubject {
		t.Errorf("Subject = %q", msg.Subject)
	}
	for _, want := range []string{"Topic: Fractions", "Difficulty: Moderate", "Score: 7 / 10", "Time Spent: 15 minutes"} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("text body missing %q:\n%s", want, msg.Text)
		}
	}
	if !strings.Contains(msg.HTML, "<li><strong>Topic:</strong> Fractions</li>") {
		t.Errorf("html body missing topic:\n%s", msg.HTML)
	}
}

func TestBuildSummary_ClockSkew(t *testing.T) {
	start := time.Now()
	s := BuildSummary(Stats{Total: 1, StartTime: start}, "Algebra", "Basic", start.Add(-time.Minute))
	if s.Duration != 0 {
		t.Errorf("Duration = %v, want 0", s.Duration)
	}
}

func TestSessionSummary_Accuracy(t *testing.T) {
	if got := (SessionSummary{}).Accuracy(); got != 0 {
		t.Errorf("Accuracy() = %v, want 0", got)
	}
	if got := (SessionSummary{Correct: 3, Total: 4}).Accuracy(); got != 0.75 {
		t.Errorf("Accuracy() = %v, want 0.75", got)
	}
}
