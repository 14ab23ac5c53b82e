// @title           Commencement Ticket Resell API
// @version         1.0
// @description     Match students buying and selling commencement tickets.
// @host            localhost
// @schemes         https http
// @BasePath        /
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"commencement-tickets/internal/api"
	"commencement-tickets/internal/auth"
	"commencement-tickets/internal/config"
	"commencement-tickets/internal/database"
	"commencement-tickets/internal/dispatch"
	"commencement-tickets/internal/notify"
	"commencement-tickets/internal/websocket"

	_ "commencement-tickets/docs"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Unable to load configuration: %v", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.OpenOptions{
		Driver:   database.Dialect(cfg.DB.Driver),
		Source:   cfg.DB.Source,
		MaxConns: cfg.DB.MaxConns,
	})
	if err != nil {
		log.Fatalf("Unable to open database: %v", err)
	}
	defer db.Close()
	logger.Info("connected to database", "driver", cfg.DB.Driver, "max_conns", cfg.DB.MaxConns)

	notifier, err := newNotifier(cfg.Mail, logger)
	if err != nil {
		log.Fatalf("Unable to initialize notifier: %v", err)
	}

	store := database.NewStore(db, database.Dialect(cfg.DB.Driver), database.Deps{
		Issuer:         auth.NewRandomIssuer(),
		Notifier:       notifier,
		Domain:         cfg.Domain,
		AcquireTimeout: cfg.DB.AcquireTimeout,
		SendTimeout:    cfg.Mail.Timeout,
		Logger:         logger,
	})

	marker, err := auth.NewMarker(cfg.Marker.Secret)
	if err != nil {
		log.Fatalf("Unable to initialize identity marker: %v", err)
	}
	if cfg.Marker.Secret == "" {
		logger.Warn("marker.secret is not set, identity markers will not survive a restart")
	}

	pool := dispatch.NewPool(cfg.Workers.Count, cfg.Workers.Queue, logger)
	defer pool.Close()

	wsHub := websocket.NewHub(logger)
	go wsHub.Run()
	defer wsHub.Stop()

	server := api.NewServer(cfg, store, pool, marker, wsHub, logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.BindAddr(),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", "addr", httpServer.Addr, "domain", cfg.Domain)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down server")
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newNotifier(cfg config.MailConfig, logger *slog.Logger) (notify.Notifier, error) {
	if !cfg.Enabled() {
		logger.Warn("mail credentials not configured, confirmations will only be logged")
		return notify.NewDiscardNotifier(cfg.Suffix, logger)
	}
	return notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		Suffix:   cfg.Suffix,
		Timeout:  cfg.Timeout,
	}, logger)
}
