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
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/joestump/studyshelf/internal/api"
	"github.com/joestump/studyshelf/internal/build"
	"github.com/joestump/studyshelf/internal/config"
	"github.com/joestump/studyshelf/internal/db"
	"github.com/joestump/studyshelf/internal/logging"
	"github.com/joestump/studyshelf/internal/notify"
	"github.com/joestump/studyshelf/internal/store"
	"github.com/joestump/studyshelf/internal/submission"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			resourceStore := store.NewResourceStore(database)
			tagStore := store.NewTagStore(database)
			likeStore := store.NewLikeStore(database)
			favouriteStore := store.NewFavouriteStore(database)
			commentStore := store.NewCommentStore(database)
			userStore := store.NewUserStore(database)

			var sink notify.Sink
			if cfg.WebhookEnabled() {
				sink = notify.NewWebhook(cfg.Webhook.URL, cfg.Webhook.ID, cfg.Webhook.Token,
					&http.Client{Timeout: cfg.Webhook.Timeout})
			} else {
				logger.Warn("webhook credentials not set, submissions will not be announced")
			}
			limiter := rate.NewLimiter(rate.Limit(cfg.Webhook.Rate), cfg.Webhook.Burst)
			dispatcher := notify.NewDispatcher(sink, cfg.Webhook.Timeout, limiter, logger)

			pipeline := submission.New(resourceStore, dispatcher, submission.Options{
				FallbackThumbnail: cfg.ThumbnailFallback,
				PublicBaseURL:     cfg.PublicBaseURL,
				Logger:            logger,
			})

			router := api.NewRouter(api.Deps{
				Logger:         logger,
				Pipeline:       pipeline,
				ResourceStore:  resourceStore,
				TagStore:       tagStore,
				LikeStore:      likeStore,
				FavouriteStore: favouriteStore,
				CommentStore:   commentStore,
				UserStore:      userStore,
				CORSOrigins:    cfg.CORSAllowedOrigins,
			})

			srv := &http.Server{
				Addr:              cfg.Addr(),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening",
					zap.String("addr", srv.Addr),
					zap.String("version", build.Version),
					zap.String("db_driver", cfg.DB.Driver),
				)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				logger.Info("shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http shutdown", zap.Error(err))
			}

			// Let in-flight announcements finish before the process exits.
			dispatcher.Wait()
			return nil
		},
	}
}
