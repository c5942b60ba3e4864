package adminservice

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"safri360/internal/admin-service/adapters/driver/myhttp"
	"safri360/internal/config"
	"safri360/internal/mylogger"
)

func Execute(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := myhttp.NewServer(newCtx, ctx, mylog, cfg)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("admin_service_failed").Error("Server failed unexpectedly", err)
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return nil
	}
}
