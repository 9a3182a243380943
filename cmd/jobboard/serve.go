package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arllen133/jobboard/internal/handler"
	"github.com/arllen133/jobboard/internal/post"
	"github.com/arllen133/jobboard/internal/session"
	"github.com/arllen133/jobboard/internal/user"
	"github.com/arllen133/jobboard/internal/view"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load loader) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Serve the web application",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := openDatabase(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if migrate {
				if err := db.Migrate(ctx); err != nil {
					return err
				}
			}

			sessions, err := session.NewManager(cfg.Session.Options())
			if err != nil {
				return err
			}
			views, err := view.New()
			if err != nil {
				return err
			}

			if cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			h := handler.New(handler.Deps{
				Posts:    post.NewRepository(db),
				Users:    user.NewRepository(db),
				Sessions: sessions,
				Views:    views,
				Logger:   logger,
				PageSize: cfg.Server.PageSize,
			})

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      h.Router(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", srv.Addr, "driver", db.Dialect().Name())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "create missing tables before serving")
	return cmd
}
