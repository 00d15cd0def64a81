package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Gowri0016/Creator/internal/config"
	"github.com/Gowri0016/Creator/internal/content"
	"github.com/Gowri0016/Creator/internal/events"
	"github.com/Gowri0016/Creator/internal/httpserver"
	"github.com/Gowri0016/Creator/internal/observability"
	"github.com/Gowri0016/Creator/internal/view"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.WithEnvFile(envFile))
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Port = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides CREATO_PORT")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	var logger *zap.Logger
	if cfg.Content.Dev {
		logger = observability.NewDevelopmentLogger()
	} else {
		var err error
		logger, err = observability.NewLogger(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("serve: build logger: %w", err)
		}
	}
	defer func() { _ = logger.Sync() }()

	c, err := content.Load(cfg.Content.File)
	if err != nil {
		return err
	}

	hub := events.NewHub(cfg.Events.Buffer, logger.Named("events"))
	registry, err := view.NewRegistry(view.RegistryDeps{
		Content: c,
		Timing: view.Timing{
			CarouselInterval: cfg.Interaction.CarouselInterval,
			LightboxGrace:    cfg.Interaction.LightboxGrace,
			NewsletterFlash:  cfg.Interaction.NewsletterFlash,
		},
		Publisher:    hub,
		Closer:       hub,
		Logger:       logger.Named("views"),
		IdleTTL:      cfg.Views.IdleTTL,
		ReapInterval: cfg.Views.ReapInterval,
		MaxViews:     cfg.Views.Max,
	})
	if err != nil {
		return err
	}

	srv, err := httpserver.New(httpserver.Config{
		Address:      cfg.Addr(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Registry:     registry,
		Hub:          hub,
		Logger:       logger,
		TemplatesDir: cfg.Content.TemplatesDir,
		Dev:          cfg.Content.Dev,
	})
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		registry.Run(runCtx)
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening",
			zap.String("addr", srv.Addr),
			zap.Int("services", len(c.Services)),
			zap.Bool("dev", cfg.Content.Dev),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case serveErr = <-errCh:
	}

	// Unmounting closes the event streams so Shutdown is not held open by them.
	cancel()
	wg.Wait()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	if serveErr != nil {
		return fmt.Errorf("serve: %w", serveErr)
	}
	return nil
}
