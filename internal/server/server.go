package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/notekeeper/apiserver/config"
	"github.com/notekeeper/apiserver/internal/auth"
	"github.com/notekeeper/apiserver/internal/db"
	"github.com/notekeeper/apiserver/internal/handlers"
	"github.com/notekeeper/apiserver/internal/logger"
	"github.com/notekeeper/apiserver/internal/metrics"
	"github.com/notekeeper/apiserver/internal/mq"
	"github.com/notekeeper/apiserver/internal/services"
	"github.com/notekeeper/apiserver/internal/storage"
	"github.com/notekeeper/apiserver/internal/store"
	"github.com/notekeeper/apiserver/internal/store/memory"
	"github.com/notekeeper/apiserver/internal/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	serviceName = "notekeeper-apiserver"

	// requestTimeout bounds handler time. The server write timeout sits just
	// above it so the handler deadline fires first and answers 504.
	requestTimeout = 30 * time.Second
	writeTimeout   = requestTimeout + 5*time.Second
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *logger.Logger
	db         *sql.DB
	queue      *mq.MQ
	shutdownTP func(context.Context) error
}

// Repositories bundles the user and note stores picked by DB_DRIVER.
type Repositories struct {
	Users  services.UserRepository
	Notes  services.NoteRepository
	Pinger handlers.Pinger
	DB     *sql.DB
}

// OpenRepositories connects the configured store. DB is nil for the memory driver.
func OpenRepositories(ctx context.Context, cfg config.DatabaseConfig) (Repositories, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		mem := memory.New()
		return Repositories{Users: mem.Users(), Notes: mem.Notes(), Pinger: mem}, nil
	case config.DriverPostgres:
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			return Repositories{}, err
		}
		users := store.NewUserRepository(conn)
		return Repositories{Users: users, Notes: store.NewNoteRepository(conn), Pinger: users, DB: conn}, nil
	default:
		return Repositories{}, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shutdownTP, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, serviceName, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	repos, err := OpenRepositories(ctx, cfg.Database)
	if err != nil {
		_ = shutdownTP(ctx)
		return nil, err
	}

	srv := &Server{log: log, db: repos.DB, shutdownTP: shutdownTP}

	issuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)
	if err != nil {
		srv.closeResources(ctx)
		return nil, err
	}

	authService := services.NewAuthService(repos.Users, issuer, cfg.Auth.BcryptCost)
	userService := services.NewUserService(repos.Users)
	noteService := services.NewNoteService(repos.Notes)

	var exportService *services.ExportService
	if cfg.ExportsEnabled() {
		archives, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			srv.closeResources(ctx)
			return nil, fmt.Errorf("open storage: %w", err)
		}
		queue, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			srv.closeResources(ctx)
			return nil, fmt.Errorf("open mq: %w", err)
		}
		srv.queue = queue
		exportService = services.NewExportService(repos.Notes, queue, archives, cfg.MQ.ExportChannel)
	} else {
		log.Info().Msg("note exports disabled: STORAGE_BACKEND or MQ_BACKEND not set")
	}

	authMiddleware := handlers.RequireAuth(issuer)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		handlers.RequestLogger(log),
		handlers.AccessLog,
		metrics.HTTPMetricsMiddleware,
		middleware.Recoverer,
		middleware.Timeout(requestTimeout),
	)
	router.Get("/healthz", handlers.Healthz(repos.Pinger))
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/api/users", func(r chi.Router) {
		handlers.AuthRouter(r, authService, userService, authMiddleware)
	})
	router.Route("/api/notes", func(r chi.Router) {
		handlers.NoteRouter(r, noteService, exportService, authMiddleware)
	})
	if cfg.StaticDir != "" {
		router.Handle("/*", handlers.SPA(cfg.StaticDir))
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 4000
	}

	srv.router = router
	srv.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      otelhttp.NewHandler(router, "http.server"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return srv, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Handler returns the fully wrapped handler the HTTP server serves.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the store, the broker
// and the tracer provider.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.closeResources(ctx)
	return err
}

func (s *Server) closeResources(ctx context.Context) {
	if s.queue != nil {
		if err := s.queue.Close(); err != nil {
			s.log.Warn().Err(err).Msg("close mq")
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Warn().Err(err).Msg("close database")
		}
	}
	if s.shutdownTP != nil {
		if err := s.shutdownTP(ctx); err != nil {
			s.log.Warn().Err(err).Msg("shutdown tracer provider")
		}
	}
}
