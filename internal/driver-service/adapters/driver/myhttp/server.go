package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"safri360/internal/config"
	"safri360/internal/driver-service/adapters/driven/bm"
	"safri360/internal/driver-service/adapters/driven/consumer"
	"safri360/internal/driver-service/adapters/driven/db"
	"safri360/internal/driver-service/adapters/driver/myhttp/handle"
	"safri360/internal/driver-service/adapters/driver/myhttp/middleware"
	"safri360/internal/driver-service/adapters/driver/myhttp/ws"
	"safri360/internal/driver-service/core/ports"
	"safri360/internal/driver-service/core/services"
	"safri360/internal/mylogger"
)

const WaitTime = 10

const RoleDriver = "DRIVER"

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DB
	mb     ports.IDriverBroker
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
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

	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("Successful message broker connection")

	if err := s.Configure(); err != nil {
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.DriverServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.DriverServicePort)
	mylog.Info("server is running")
	return s.startHTTPServer()
}

func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	s.wg.Wait()

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
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

func (s *Server) Configure() error {
	driverRepo := db.NewDriverRepo(s.db)

	hub := ws.NewHub(s.mylog)

	driverService := services.NewDriverService(s.appCtx, s.mylog, driverRepo, s.mb, hub)

	assignments := consumer.New(s.appCtx, &s.wg, s.mylog, s.mb, driverService)
	if err := assignments.Run(); err != nil {
		return fmt.Errorf("start assignment consumer: %w", err)
	}

	driverHandler := handle.NewDriverHandler(driverService, s.mylog)
	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.JwtSecret)

	s.mux.Handle("POST /drivers/{pin_code}/online", authMiddleware.Wrap(driverHandler.GoOnline(), RoleDriver))
	s.mux.Handle("POST /drivers/{pin_code}/offline", authMiddleware.Wrap(driverHandler.GoOffline(), RoleDriver))
	s.mux.Handle("POST /drivers/{pin_code}/arrived", authMiddleware.Wrap(driverHandler.Arrived(), RoleDriver))
	s.mux.Handle("POST /drivers/{pin_code}/start", authMiddleware.Wrap(driverHandler.StartRide(), RoleDriver))
	s.mux.Handle("POST /drivers/{pin_code}/complete", authMiddleware.Wrap(driverHandler.CompleteRide(), RoleDriver))
	s.mux.Handle("GET /drivers/{pin_code}/ride", authMiddleware.Wrap(driverHandler.ActiveRide(), RoleDriver))

	s.mux.Handle("/ws/drivers/{pin_code}", hub.DriverHandler())

	return nil
}
