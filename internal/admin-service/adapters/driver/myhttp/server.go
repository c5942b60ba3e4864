package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"safri360/internal/admin-service/adapters/driven/db"
	"safri360/internal/admin-service/adapters/driven/presence"
	"safri360/internal/admin-service/adapters/driver/myhttp/handle"
	"safri360/internal/admin-service/adapters/driver/myhttp/middleware"
	"safri360/internal/admin-service/core/ports"
	"safri360/internal/admin-service/core/services"
	"safri360/internal/config"
	"safri360/internal/mylogger"
)

const WaitTime = 10

const RoleAdmin = "ADMIN"

type Server struct {
	mux      *http.ServeMux
	cfg      *config.Config
	srv      *http.Server
	mylog    mylogger.Logger
	db       *db.DB
	presence ports.IPresenceCounter
	ctx      context.Context
	appCtx   context.Context
	mu       sync.Mutex
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	return &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}
}

func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	database, err := db.New(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = database
	mylog.Info("Successful database connection")

	counter, err := presence.New(s.ctx, s.cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.presence = counter
	mylog.Info("Successful presence store connection")

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.AdminServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.AdminServicePort)
	mylog.Info("server is running")
	return s.startHTTPServer()
}

func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.presence != nil {
		if err := s.presence.Close(); err != nil {
			s.mylog.Error("Failed to close presence store", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) Configure() {
	adminRepo := db.NewAdminRepo(s.db)

	adminService := services.NewAdminService(s.appCtx, s.mylog, adminRepo, s.presence)
	adminHandler := handle.NewAdminHandler(adminService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.JwtSecret)

	s.mux.Handle("GET /admin/rides/active", authMiddleware.Wrap(adminHandler.ActiveRides(), RoleAdmin))
	s.mux.Handle("GET /admin/overview", authMiddleware.Wrap(adminHandler.Overview(), RoleAdmin))
}
