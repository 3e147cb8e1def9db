package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// AuthUseCase verifies bearer tokens for API requests
type AuthUseCase = usecase.AuthUseCaseInterface

type Server struct {
	router       *chi.Mux
	assessmentUC *usecase.AssessmentUseCase
	authUC       AuthUseCase
}

type Options func(*Server)

// WithAuth sets the token verifier for the API routes
func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

func New(assessmentUC *usecase.AssessmentUseCase, opts ...Options) (*Server, error) {
	if assessmentUC == nil {
		return nil, goerr.New("assessment use case is required")
	}

	r := chi.NewRouter()
	s := &Server{
		router:       r,
		assessmentUC: assessmentUC,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Liveness endpoint, no auth
	r.Get("/health", healthHandler())

	r.Route("/api/assessments", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))
		r.Post("/", submitAssessmentHandler(s.assessmentUC))
		r.Get("/", listAssessmentsHandler(s.assessmentUC))
		r.Get("/{id}", getAssessmentHandler(s.assessmentUC))
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// healthHandler reports service liveness
func healthHandler() http.HandlerFunc {
	type healthResponse struct {
		Status string `json:"status"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
