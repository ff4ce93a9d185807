package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/portal-live/internal/handler/http/middleware"
	"github.com/cmlabs-hris/portal-live/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the host settings the router needs
type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
	LogLevel       slog.Level
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, pageHandler PageHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "portal-live"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1/page", func(r chi.Router) {
		// Stream authenticates with its own short-lived token
		r.Get("/stream", pageHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/", pageHandler.Snapshot)
			r.Get("/status", pageHandler.Status)
			r.Get("/stream-token", pageHandler.GetStreamToken)

			r.Group(func(r chi.Router) {
				r.Use(chiMiddleware.AllowContentType("application/json"))
				r.Post("/visibility", pageHandler.SetVisibility)
				r.Post("/profile", pageHandler.UpdateProfile)
			})
			r.Post("/cards/{id}/refresh", pageHandler.RefreshCard)
			r.Delete("/alerts/{id}", pageHandler.DismissAlert)
		})
	})
	return r
}
