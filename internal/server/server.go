// Package server provides the MathMentor HTTP API.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/mathmentor/internal/auth"
	"github.com/abhisek/mathmentor/internal/docstore"
	"github.com/abhisek/mathmentor/internal/session"
)

// Authenticator is the guardian account service.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (auth.User, string, error)
	SignIn(ctx context.Context, email, password string) (auth.User, string, error)
	SignOut(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (auth.User, error)
}

// Deps are the collaborators the API serves.
type Deps struct {
	Auth        Authenticator
	Practices   *session.Manager
	Docs        docstore.Store
	CORSOrigins []string
	Logger      *slog.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	auth      Authenticator
	practices *session.Manager
	docs      docstore.Store
	origins   []string
	logger    *slog.Logger
}

// New creates a Server.
func New(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Server{
		auth:      d.Auth,
		practices: d.Practices,
		docs:      d.Docs,
		origins:   origins,
		logger:    logger,
	}
}

// Handler returns the router with all middleware and routes installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))
	r.Use(CORS(s.origins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.GetCatalog)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.SignUp)
			r.Post("/signin", s.SignIn)
			r.With(s.RequireAuth).Post("/signout", s.SignOut)
			r.With(s.RequireAuth).Get("/me", s.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuth)

			r.Route("/practice", func(r chi.Router) {
				r.Get("/", s.GetPractice)
				r.Post("/problems", s.NewProblem)
				r.Post("/hints", s.RequestHint)
				r.Post("/solution", s.RequestSolution)
				r.Post("/answer", s.SubmitAnswer)
				r.Post("/end", s.EndPractice)
			})

			r.Get("/students/{studentID}/problems", s.ListProblems)
			r.Get("/students/{studentID}/problems/{problemID}", s.GetProblem)
		})
	})

	return r
}
