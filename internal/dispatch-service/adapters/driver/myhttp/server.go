package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"safri360/internal/config"
	"safri360/internal/dispatch-service/adapters/driven/bm"
	"safri360/internal/dispatch-service/adapters/driven/consumer"
	"safri360/internal/dispatch-service/adapters/driven/db"
	"safri360/internal/dispatch-service/adapters/driven/presence"
	"safri360/internal/dispatch-service/adapters/driven/sms"
	"safri360/internal/dispatch-service/adapters/driver/myhttp/handle"
	"safri360/internal/dispatch-service/adapters/driver/myhttp/middleware"
	"safri360/internal/dispatch-service/adapters/driver/myhttp/ws"
	"safri360/internal/dispatch-service/core/ports"
	"safri360/internal/dispatch-service/core/services"
	"safri360/internal/mylogger"
)

const WaitTime = 10

const (
	RoleRider    = "RIDER"
	RoleRentACar = "RENT_A_CAR"
	RoleFreight  = "FREIGHT_RIDER"
)

type Server struct {
	mux      *http.ServeMux
	cfg      *config.Config
	srv      *http.Server
	mylog    mylogger.Logger
	db       *db.DB
	mb       ports.IDispatchBroker
	presence ports.IPresenceStore
	ctx      context.Context
	appCtx   context.Context
	mu       sync.Mutex
	wg       sync.WaitGroup
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

// Run wires adapters and services, then listens until the context ends.
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

	presenceStore, err := presence.New(s.ctx, s.cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.presence = presenceStore
	mylog.Info("Successful presence store connection")

	if err := s.Configure(); err != nil {
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.DispatchServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.DispatchServicePort)
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

// Configure builds the object graph: repos, matcher, services, handlers.
func (s *Server) Configure() error {
	// Repositories
	ridesRepo := db.NewRidesRepo(s.db)
	fleetRepo := db.NewFleetRepo(s.db)
	customerRepo := db.NewCustomerRepo(s.db)

	// WebSocket hub
	dispatcher := ws.NewDispatcher(s.mylog)

	// Matcher, seeded from the current store state
	matcher := services.NewMatcher(s.mylog)
	seedCtx, cancel := context.WithTimeout(s.ctx, time.Second*15)
	defer cancel()
	openRides, err := ridesRepo.ListRequested(seedCtx)
	if err != nil {
		return fmt.Errorf("seed matcher rides: %w", err)
	}
	idleCars, err := fleetRepo.ListIdleCars(seedCtx)
	if err != nil {
		return fmt.Errorf("seed matcher cars: %w", err)
	}
	matcher.Seed(openRides, idleCars)

	// Driven adapters
	smsSender := sms.New(s.cfg.Sms, s.mylog)

	// Services
	rideService := services.NewRidesService(s.appCtx, s.mylog, ridesRepo, customerRepo, s.mb, dispatcher, matcher)
	assignmentService := services.NewAssignmentService(s.appCtx, s.mylog, ridesRepo, fleetRepo, s.mb, dispatcher, smsSender, matcher)
	fleetService := services.NewFleetService(s.appCtx, s.mylog, fleetRepo, smsSender, matcher)
	presenceService := services.NewPresenceService(s.mylog, s.presence)

	// Broker consumer for driver stage transitions
	notification := consumer.New(s.appCtx, &s.wg, s.mylog, s.mb, rideService)
	if err := notification.Run(); err != nil {
		return fmt.Errorf("start driver status consumer: %w", err)
	}

	// Handlers
	ridesHandler := handle.NewRidesHandler(rideService, assignmentService, s.mylog)
	fleetHandler := handle.NewFleetHandler(fleetService, s.mylog)
	presenceHandler := handle.NewPresenceHandler(presenceService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.JwtSecret)

	// Rider routes
	s.mux.Handle("POST /rides", authMiddleware.Wrap(ridesHandler.CreateRide(), RoleRider, RoleFreight))
	s.mux.Handle("POST /rides/{ride_id}/cancel", authMiddleware.Wrap(ridesHandler.CancelRide(), RoleRider, RoleFreight))

	// Rent-a-car owner routes
	s.mux.Handle("GET /rides/requests", authMiddleware.Wrap(ridesHandler.ListCandidates(), RoleRentACar))
	s.mux.Handle("POST /rides/{ride_id}/ignore", authMiddleware.Wrap(ridesHandler.IgnoreRide(), RoleRentACar))
	s.mux.Handle("POST /rides/{ride_id}/assign", authMiddleware.Wrap(ridesHandler.AssignDriver(), RoleRentACar))

	s.mux.Handle("POST /fleet/cars", authMiddleware.Wrap(fleetHandler.AddCar(), RoleRentACar))
	s.mux.Handle("GET /fleet/cars", authMiddleware.Wrap(fleetHandler.ListCars(), RoleRentACar))
	s.mux.Handle("DELETE /fleet/cars/{registration_number}", authMiddleware.Wrap(fleetHandler.RemoveCar(), RoleRentACar))
	s.mux.Handle("POST /fleet/drivers", authMiddleware.Wrap(fleetHandler.AddDriver(), RoleRentACar))
	s.mux.Handle("GET /fleet/drivers", authMiddleware.Wrap(fleetHandler.ListDrivers(), RoleRentACar))
	s.mux.Handle("GET /fleet/drivers/available", authMiddleware.Wrap(fleetHandler.ListAvailableDrivers(), RoleRentACar))
	s.mux.Handle("DELETE /fleet/drivers/{pin_code}", authMiddleware.Wrap(fleetHandler.RemoveDriver(), RoleRentACar))

	// Presence routes for every account type
	s.mux.Handle("POST /presence/online", authMiddleware.Wrap(presenceHandler.GoOnline()))
	s.mux.Handle("POST /presence/offline", authMiddleware.Wrap(presenceHandler.GoOffline()))

	// WebSocket subscriptions
	s.mux.Handle("/ws/owners/{owner_uid}", dispatcher.OwnerHandler())
	s.mux.Handle("/ws/riders/{customer_id}", dispatcher.RiderHandler())

	return nil
}
