package docstore

import "time"

// ProblemRecord is the persisted form of one practice problem. Writes are
// merges, so fields appear as the problem progresses.
type ProblemRecord struct {
	ID              string    `json:"id"`
	Statement       string    `json:"statement"`
	GradeLevel      string    `json:"gradeLevel"`
	Topic           string    `json:"topic"`
	Difficulty      string    `json:"difficulty"`
	Answer          string    `json:"answer"`
	SubmittedAnswer string    `json:"submittedAnswer,omitempty"`
	IsCorrect       *bool     `json:"isCorrect,omitempty"`
	HintsRevealed   int       `json:"hintsRevealed"`
	SolutionViewed  bool      `json:"solutionViewed"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// GuardianRecord is the account document stored at GuardianPath.
type GuardianRecord struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// EmailIndexRecord maps a normalized email to a guardian UID.
type EmailIndexRecord struct {
	UID string `json:"uid"`
}
