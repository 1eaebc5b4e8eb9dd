// Package server is the composition root: it wires the database,
// repositories, services, and handlers together and owns the route table.
//
// The dependency chain is assembled once, in New:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer receives only what it needs: services get repository
// interfaces, handlers get services, and nothing below the handler layer
// knows HTTP exists.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/config"
	"github.com/sakif/devconnector/internal/handler"
	"github.com/sakif/devconnector/internal/middleware"
	sqliteRepo "github.com/sakif/devconnector/internal/repository/sqlite"
	"github.com/sakif/devconnector/internal/service"
)

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown in Start.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with all dependencies wired.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes builds the dependency graph and the route table.
//
// Route surface:
//
//	POST   /api/users/register              public
//	POST   /api/users/login                 public
//	GET    /api/users/current               gate
//	GET    /api/users/github/login          public (when configured)
//	GET    /api/users/github/callback       public (when configured)
//	GET    /api/profile                     gate
//	POST   /api/profile                     gate
//	DELETE /api/profile                     gate
//	GET    /api/profile/all                 public
//	GET    /api/profile/handle/{handle}     public
//	GET    /api/profile/user/{userID}       public
//	POST   /api/profile/experience          gate
//	DELETE /api/profile/experience/{id}     gate
//	POST   /api/profile/education           gate
//	DELETE /api/profile/education/{id}      gate
//	GET    /api/posts                       public
//	POST   /api/posts                       gate
//	GET    /api/posts/{id}                  public
//	DELETE /api/posts/{id}                  gate
//	POST   /api/posts/like/{id}             gate
//	POST   /api/posts/unlike/{id}           gate
//	POST   /api/posts/comment/{id}          gate
//	DELETE /api/posts/comment/{id}/{commentID} gate
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	users := s.db.Users()
	profiles := s.db.Profiles()
	posts := s.db.Posts()

	authService := service.NewAuthService(users, tokens, passwords, s.logger)
	profileService := service.NewProfileService(profiles, users, s.logger)
	postService := service.NewPostService(posts, s.logger)

	var github *auth.GitHubProvider
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	// CORS first — preflights must short-circuit before anything else.
	// AllowCredentials with explicit origins, never a wildcard.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The protected-route gate: token verification plus per-request
	// identity resolution against the user store.
	gate := auth.RequireUser(tokens, users)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.With(gate).Get("/current", authHandler.HandleCurrent)

			if github != nil {
				r.Get("/github/login", authHandler.HandleGitHubLogin)
				r.Get("/github/callback", authHandler.HandleGitHubCallback)
			}
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/all", profileHandler.HandleList)
			r.Get("/handle/{handle}", profileHandler.HandleGetByHandle)
			r.Get("/user/{userID}", profileHandler.HandleGetByUserID)

			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Get("/", profileHandler.HandleGetOwn)
				r.Post("/", profileHandler.HandleUpsert)
				r.Delete("/", profileHandler.HandleDeleteAccount)
				r.Post("/experience", profileHandler.HandleAddExperience)
				r.Delete("/experience/{id}", profileHandler.HandleRemoveExperience)
				r.Post("/education", profileHandler.HandleAddEducation)
				r.Delete("/education/{id}", profileHandler.HandleRemoveEducation)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.HandleList)
			r.Get("/{id}", postHandler.HandleGetByID)

			r.Group(func(r chi.Router) {
				r.Use(gate)
				r.Post("/", postHandler.HandleCreate)
				r.Delete("/{id}", postHandler.HandleDelete)
				r.Post("/like/{id}", postHandler.HandleLike)
				r.Post("/unlike/{id}", postHandler.HandleUnlike)
				r.Post("/comment/{id}", postHandler.HandleAddComment)
				r.Delete("/comment/{id}/{commentID}", postHandler.HandleRemoveComment)
			})
		})
	})

	return nil
}

// Router exposes the configured router; handler-level tests mount it in an
// httptest.Server.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database. Only needed by callers that don't go through
// Start (tests).
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database (flushes the WAL, releases the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
