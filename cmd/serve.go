package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Laizra/Call-tracker-app-R2024/internal/config"
	"github.com/Laizra/Call-tracker-app-R2024/internal/controllers"
	"github.com/Laizra/Call-tracker-app-R2024/internal/dashboard"
	"github.com/Laizra/Call-tracker-app-R2024/internal/routes"
	"github.com/Laizra/Call-tracker-app-R2024/internal/services"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), cfg)
	},
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cfg.Logger

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	if cfg.DryRunSave {
		logger.Println("🧪 DRY_RUN_SAVE enabled: saves are logged, not written")
	}

	d := dashboard.Dispatcher{
		Saver:  services.CallReconcileService{Store: be.store, Logger: logger, DryRun: cfg.DryRunSave},
		Loader: be.store,
		Logger: logger,
	}
	dc := &controllers.DashboardController{
		Sessions:   dashboard.NewSessionStore(d.InitialState, 0),
		Dispatcher: d,
		Logger:     cfg.Zap,
		Health:     be.health,
	}
	router := routes.NewRouter(dc, routes.Options{
		Logger:           cfg.Zap,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Debug:            cfg.Debug,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Printf("🚀 Listening on http://%s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Println("✅ Server stopped.")
	return nil
}
