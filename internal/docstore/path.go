package docstore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath is returned for paths with empty segments or segments
// containing a separator.
var ErrInvalidPath = errors.New("docstore: invalid path")

// Collection names used by the application.
const (
	CollectionGuardians      = "guardians"
	CollectionStudents       = "students"
	CollectionProblems       = "problems"
	CollectionGuardianEmails = "guardian_emails"
)

// Path addresses a document or collection. Segments alternate between
// collection names and document IDs, so a document path has an even
// number of segments and a collection path an odd number.
type Path []string

// NewPath builds a Path and validates every segment.
func NewPath(segments ...string) (Path, error) {
	p := Path(segments)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParsePath splits a slash-separated path. Leading and trailing slashes
// are ignored.
func ParsePath(s string) (Path, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	return NewPath(strings.Split(s, "/")...)
}

// Validate checks that the path is non-empty and every segment is usable.
func (p Path) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	for i, seg := range p {
		if strings.TrimSpace(seg) == "" {
			return fmt.Errorf("%w: segment %d is empty", ErrInvalidPath, i)
		}
		if strings.Contains(seg, "/") {
			return fmt.Errorf("%w: segment %q contains '/'", ErrInvalidPath, seg)
		}
	}
	return nil
}

// IsDocument reports whether p addresses a document.
func (p Path) IsDocument() bool {
	return len(p) > 0 && len(p)%2 == 0
}

// Parent returns the collection that holds a document, or the document
// that holds a sub-collection.
func (p Path) Parent() Path {
	if len(p) <= 1 {
		return nil
	}
	return p[:len(p)-1]
}

// ID returns the last segment.
func (p Path) ID() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child appends segments to a copy of p.
func (p Path) Child(segments ...string) Path {
	out := make(Path, 0, len(p)+len(segments))
	out = append(out, p...)
	return append(out, segments...)
}

func (p Path) String() string {
	return strings.Join(p, "/")
}

// GuardianPath is the account document of a guardian.
func GuardianPath(guardianID string) Path {
	return Path{CollectionGuardians, guardianID}
}

// StudentPath is a student document under a guardian.
func StudentPath(guardianID, studentID string) Path {
	return GuardianPath(guardianID).Child(CollectionStudents, studentID)
}

// ProblemsCollection holds the problem records of one student.
func ProblemsCollection(guardianID, studentID string) Path {
	return StudentPath(guardianID, studentID).Child(CollectionProblems)
}

// ProblemPath is a single problem record.
func ProblemPath(guardianID, studentID, problemID string) Path {
	return ProblemsCollection(guardianID, studentID).Child(problemID)
}

// GuardianEmailPath indexes guardian accounts by normalized email.
func GuardianEmailPath(email string) Path {
	return Path{CollectionGuardianEmails, strings.ToLower(strings.TrimSpace(email))}
}
