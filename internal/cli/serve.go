package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/spiral023/eventhorizon-sub000/internal/assets"
	"github.com/spiral023/eventhorizon-sub000/internal/config"
	"github.com/spiral023/eventhorizon-sub000/internal/events"
	"github.com/spiral023/eventhorizon-sub000/internal/handlers"
	"github.com/spiral023/eventhorizon-sub000/internal/rooms"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is required to serve")
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	store, closeStore, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Println("Error closing store:", err)
		}
	}()

	svcCfg := events.Config{
		MaxDateOptions:    cfg.MaxDateOptions,
		MaxUpdateAttempts: cfg.MaxUpdateAttempts,
		Rooms:             rooms.NewStaticDirectory(cfg.KnownRoomIDs),
	}
	if cfg.CloudinaryURL != "" {
		cleaner, err := assets.NewCloudinary(cfg.CloudinaryURL)
		if err != nil {
			return err
		}
		svcCfg.Assets = cleaner
	}
	svc := events.NewService(store, store, svcCfg)

	gin.SetMode(cfg.GinMode)
	router := handlers.NewRouter(svc, handlers.RouterConfig{
		JWTSecret:      []byte(cfg.JWTSecret),
		JWTIssuer:      cfg.JWTIssuer,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server started on %s (store: %s)", cfg.Addr(), cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return err
	case <-quit:
	case <-ctx.Done():
	}
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Server forced to shutdown:", err)
		return err
	}
	log.Println("Server exited")
	return nil
}
