package server

import (
	"net/http"

	"github.com/abhisek/mathmentor/internal/auth"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  auth.User `json:"user"`
	Token string    `json:"token"`
}

// SignUp creates a guardian account.
func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := s.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// SignIn exchanges credentials for a token.
func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// SignOut sends the pending session summary, ends the practice and
// revokes the token. A failed summary is logged, not returned.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	sent, err := s.practices.SignOut(r.Context(), user.UID, user.Email)
	if err != nil {
		s.logger.WarnContext(r.Context(), "summary email failed at sign-out", "guardian_id", user.UID, "error", err)
	}

	if err := s.auth.SignOut(r.Context(), tokenFromContext(r.Context())); err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"summarySent": sent})
}

// Me returns the signed-in guardian.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	JSON(w, http.StatusOK, user)
}
