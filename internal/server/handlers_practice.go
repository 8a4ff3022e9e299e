package server

import (
	"net/http"

	"github.com/abhisek/mathmentor/internal/problemgen"
	"github.com/abhisek/mathmentor/internal/session"
)

// GetCatalog returns the selectable grade levels, topics and difficulties.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, problemgen.DefaultCatalog())
}

func (s *Server) practice(r *http.Request) *session.Practice {
	user, _ := UserFromContext(r.Context())
	return s.practices.Get(r.Context(), session.Owner{GuardianID: user.UID, Email: user.Email})
}

// activePractice returns the guardian's running practice without starting
// one; with none running there is no problem to act on.
func (s *Server) activePractice(r *http.Request) (*session.Practice, error) {
	user, _ := UserFromContext(r.Context())
	p, ok := s.practices.Lookup(user.UID)
	if !ok {
		return nil, session.ErrNoProblem
	}
	return p, nil
}

// GetPractice returns the current practice snapshot.
func (s *Server) GetPractice(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, s.practice(r).Snapshot())
}

type newProblemRequest struct {
	problemgen.Selection
	StudentID string `json:"studentId"`
}

// NewProblem generates a problem for the posted selection.
func (s *Server) NewProblem(w http.ResponseWriter, r *http.Request) {
	var req newProblemRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	p := s.practice(r)
	if _, err := p.NewProblem(r.Context(), req.Selection, req.StudentID); err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, p.Snapshot())
}

// RequestHint reveals the next hint.
func (s *Server) RequestHint(w http.ResponseWriter, r *http.Request) {
	p, err := s.activePractice(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	view, err := p.RequestHint(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

// RequestSolution reveals every hint.
func (s *Server) RequestSolution(w http.ResponseWriter, r *http.Request) {
	p, err := s.activePractice(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	view, err := p.RequestSolution(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// SubmitAnswer checks the posted answer.
func (s *Server) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := s.activePractice(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	res, err := p.SubmitAnswer(r.Context(), req.Answer)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

// EndPractice sends the summary and starts a new session.
func (s *Server) EndPractice(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	res, err := s.practice(r).End(r.Context(), user.Email)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.WarnContext(r.Context(), "summary email failed", "guardian_id", user.UID, "error", err)
			status, msg = http.StatusBadGateway, "failed to send the summary email"
		}
		Error(w, status, msg)
		return
	}
	JSON(w, http.StatusOK, res)
}
