// Package server is the composition root: it opens the store, wires every
// controller onto the router, and runs the HTTP server until a shutdown
// signal arrives.
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

	"github.com/noteskit/noteskit/internal/apperror"
	"github.com/noteskit/noteskit/internal/controller"
	"github.com/noteskit/noteskit/internal/middleware"
	"github.com/noteskit/noteskit/internal/model"
	sqliteRepo "github.com/noteskit/noteskit/internal/repository/sqlite"
	"github.com/noteskit/noteskit/internal/respond"
)

// Config holds server configuration.
type Config struct {
	Port   int
	DBPath string
}

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and assembles the full route table.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
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
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Recoverer(s.logger))
	s.router.Use(middleware.Logger(s.logger))

	// Unmatched routes and wrong methods still answer in the envelope.
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Failure(w, http.StatusNotFound,
			apperror.New(fmt.Sprintf("No route found for %s %s.", r.Method, r.URL.Path)))
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Failure(w, http.StatusMethodNotAllowed,
			apperror.New(fmt.Sprintf("Method %s is not allowed on %s.", r.Method, r.URL.Path)))
	})

	users := sqliteRepo.NewUsers(s.db)
	notes := sqliteRepo.NewNotes(s.db)
	categories := sqliteRepo.NewCategories(s.db)
	profiles := sqliteRepo.NewProfiles(s.db)
	pivots := sqliteRepo.NewNoteCategories(s.db)
	runs := sqliteRepo.NewQueryRuns(s.db)

	controller.NewResource(func() *model.User { return &model.User{} }, users,
		controller.WithSorting[*model.User](users),
		controller.WithFiltering[*model.User](users),
	).Mount(s.router)
	controller.NewResource(func() *model.Note { return &model.Note{} }, notes,
		controller.WithSorting[*model.Note](notes),
		controller.WithFiltering[*model.Note](notes),
	).Mount(s.router)
	controller.NewResource(func() *model.Category { return &model.Category{} }, categories,
		controller.WithSorting[*model.Category](categories),
		controller.WithFiltering[*model.Category](categories),
	).Mount(s.router)
	controller.NewResource(func() *model.Profile { return &model.Profile{} }, profiles,
		controller.WithSorting[*model.Profile](profiles),
		controller.WithFiltering[*model.Profile](profiles),
	).Mount(s.router)

	controller.NewUserNotes(users, notes).Mount(s.router)
	controller.NewNoteCategoryRelation(users, notes, categories, pivots).Mount(s.router)
	controller.NewQueryRun(s.db, runs).Mount(s.router)

	// The audit log itself is served through the generic routes; a record
	// created or updated there starts with cleared execution state, since
	// only POST /api/v1/test executes anything.
	controller.NewResource(func() *model.QueryRun { return &model.QueryRun{} }, runs).Mount(s.router)
}

// Handler exposes the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests and
// closes the database.
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
