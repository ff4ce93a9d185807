package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/portal-live/internal/config"
	appHTTP "github.com/cmlabs-hris/portal-live/internal/handler/http"
	"github.com/cmlabs-hris/portal-live/internal/pkg/clock"
	"github.com/cmlabs-hris/portal-live/internal/pkg/jwt"
	"github.com/cmlabs-hris/portal-live/internal/pkg/portalapi"
	"github.com/cmlabs-hris/portal-live/internal/pkg/sse"
	"github.com/cmlabs-hris/portal-live/internal/service/liveupdate"
	"github.com/cmlabs-hris/portal-live/internal/view"
	"golang.org/x/sync/errgroup"
)

const (
	version         = "v1.0.0"
	shutdownTimeout = 10 * time.Second
	streamBuffer    = 64
)

func main() {
	issueToken := flag.String("issue-token", "", "print an access token for the given viewer and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", "portal-live"),
		slog.String("env", cfg.App.Env),
	))

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	if *issueToken != "" {
		token, expiresAt, err := JWTService.GenerateAccessToken(*issueToken)
		if err != nil {
			fmt.Println("Error issuing token:", err)
			os.Exit(1)
		}
		fmt.Println(token)
		fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
		return
	}

	if err := run(cfg, JWTService, level); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, JWTService jwt.Service, level slog.Level) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	portalClient, err := portalapi.NewClient(cfg.Portal.BaseURL,
		portalapi.WithHTTPClient(portalapi.NewHTTPClient(ctx, cfg.Portal.AccessToken, cfg.Portal.RequestTimeout)),
		portalapi.WithCookies(
			portalapi.SessionCookie(cfg.Portal.SessionID),
			portalapi.CSRFCookie(cfg.Portal.CSRFToken),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create portal client: %w", err)
	}

	page := view.NewEmployeeDashboard(cfg.Page.Cards, cfg.Portal.CSRFToken)
	hub := sse.NewHub(streamBuffer)
	stopStreaming := appHTTP.StreamMutations(page, hub)
	defer stopStreaming()

	live := liveupdate.New(portalClient, page, clock.New(), liveupdate.Config{
		PollInterval:       cfg.Live.PollInterval,
		HighlightDuration:  cfg.Live.HighlightDuration,
		IndicatorFadeDelay: cfg.Live.IndicatorFadeDelay,
		AlertTTL:           cfg.Live.AlertTTL,
	})
	live.Init()
	defer live.Close()

	pageHandler := appHTTP.NewPageHandler(live, page, hub, JWTService)
	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Env:            cfg.App.Env,
		Version:        version,
		LogLevel:       level,
	}, JWTService, pageHandler)

	g, gctx := errgroup.WithContext(ctx)

	// Requests inherit gctx so open streams end when shutdown starts
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "portal", cfg.Portal.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
