package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/mathmentor/internal/docstore"
)

// GetProblem returns a stored problem record of the guardian's student.
func (s *Server) GetProblem(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	path, err := docstore.NewPath(
		docstore.CollectionGuardians, user.UID,
		docstore.CollectionStudents, chi.URLParam(r, "studentID"),
		docstore.CollectionProblems, chi.URLParam(r, "problemID"),
	)
	if err != nil {
		fail(w, r, err)
		return
	}

	rec, err := s.docs.Read(r.Context(), path)
	if err != nil {
		fail(w, r, err)
		return
	}

	var problem docstore.ProblemRecord
	if err := docstore.Decode(rec, &problem); err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, problem)
}

// ListProblems returns every stored problem record of the student.
func (s *Server) ListProblems(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	path, err := docstore.NewPath(
		docstore.CollectionGuardians, user.UID,
		docstore.CollectionStudents, chi.URLParam(r, "studentID"),
		docstore.CollectionProblems,
	)
	if err != nil {
		fail(w, r, err)
		return
	}

	docs, err := s.docs.List(r.Context(), path)
	if err != nil {
		fail(w, r, err)
		return
	}

	problems := make([]docstore.ProblemRecord, 0, len(docs))
	for _, d := range docs {
		var p docstore.ProblemRecord
		if err := docstore.Decode(d.Data, &p); err != nil {
			fail(w, r, err)
			return
		}
		problems = append(problems, p)
	}
	JSON(w, http.StatusOK, map[string]any{"problems": problems})
}
