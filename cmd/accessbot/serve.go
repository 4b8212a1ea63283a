package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-access-bot/internal/bot"
	"github.com/tbourn/go-access-bot/internal/config"
	httpapi "github.com/tbourn/go-access-bot/internal/http"
	"github.com/tbourn/go-access-bot/internal/http/handlers"
	"github.com/tbourn/go-access-bot/internal/observability"
	"github.com/tbourn/go-access-bot/internal/presenter"
	"github.com/tbourn/go-access-bot/internal/services"
)

const (
	dispatchBacklog = 64
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook and API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion())
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	store, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	admins := services.NewAdminSet(cfg.Bot.AdminIDs)
	if admins.Len() == 0 {
		log.Warn().Msg("ADMIN_IDS empty; the admin console is unreachable")
	}
	if cfg.Bot.WebhookSecret == "" {
		log.Warn().Msg("WEBHOOK_SECRET not set; the Telegram webhook is disabled")
	}
	ledger := services.NewLedger(store)
	gate := services.NewGate(ledger)
	serial := bot.NewSerial(&bot.Dispatcher{
		Identity: services.NewIdentityStore(store),
		Gate:     gate,
		Console:  services.NewConsole(admins, ledger, cfg.Store.ListPageSize),
		AppURL:   cfg.Bot.MiniAppURL,
	}, dispatchBacklog)

	p, err := presenter.New(cfg.Bot.DefaultLocale, cfg.Bot.SupportURL)
	if err != nil {
		return err
	}
	h := handlers.New(serial, p, store, gate, handlers.Options{
		BotToken:       cfg.Bot.Token,
		InitDataMaxAge: cfg.Bot.WebAppAuthMaxAge,
		UpdateTTL:      cfg.Store.UpdateTTL,
	})

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, h, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	// The dispatcher outlives the listener so in-flight webhooks finish.
	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serial.Run(runCtx) })
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("version", appVersion()).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		defer stopRun()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(sctx)
	})

	if cfg.Store.Configured() {
		c, err := purgeScheduler(cfg.Store.PurgeSchedule, store)
		if err != nil {
			return err
		}
		c.Start()
		g.Go(func() error {
			<-gctx.Done()
			<-c.Stop().Done()
			return nil
		})
	}

	return g.Wait()
}

// purgeScheduler drops expired processed-update ids on schedule.
func purgeScheduler(spec string, store backingStore) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		n, err := store.PurgeExpiredUpdates(context.Background())
		if err != nil {
			log.Warn().Err(err).Msg("purge expired updates failed")
			return
		}
		log.Debug().Int64("purged", n).Msg("expired updates purged")
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("schedule", spec).Msg("update purge scheduled")
	return c, nil
}
