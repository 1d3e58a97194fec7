package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"schoolapi/src/auth"
	"schoolapi/src/errlog"
	"schoolapi/src/handler"
	"schoolapi/src/middleware"
)

// Deps are the collaborators the router needs. They are injected rather
// than resolved from globals so tests can swap any of them.
type Deps struct {
	Tokens      *auth.JWT
	Interceptor *middleware.Interceptor
	Writer      *errlog.Writer
	Users       handler.UserFinder
	Students    StudentStore
}

type StudentStore interface {
	handler.StudentReader
	handler.StudentWriter
}

// NewRouter wires the middleware chain and routes. Order matters: tracing
// first so log records carry an id, body buffering before the interceptor
// so snapshots can re-read the payload, then the single catch point.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Tracing)
	r.Use(middleware.BodyBuffer)
	r.Use(deps.Interceptor.Middleware)

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("\"/healthcheck\" error")
		}
	})
	r.Post("/api/login", deps.Interceptor.Handler(handler.LoginHandler(deps.Users, deps.Tokens)))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Tokens))

		r.Get("/api/students", deps.Interceptor.Handler(handler.ListStudentsHandler(deps.Students)))
		r.Get("/api/students/{studentID}", deps.Interceptor.Handler(handler.GetStudentHandler(deps.Students)))
		r.Post("/api/students", deps.Interceptor.Handler(handler.CreateStudentHandler(deps.Students)))
	})

	return r
}

func StartServer(port string, deps Deps) {
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: NewRouter(deps),
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}

	// Give the audit queue a chance to land pending records.
	if deps.Writer != nil {
		deps.Writer.Close(5 * time.Second)
	}
}
