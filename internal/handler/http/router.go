package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/attendify/attendify-backend-go/internal/handler/http/middleware"
	"github.com/attendify/attendify-backend-go/internal/handler/http/response"
	"github.com/attendify/attendify-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the deployment settings the router needs.
type RouterOptions struct {
	FrontendURL string
	Env         string
	LogLevel    slog.Level
	// UploadsPerMinute limits upload requests per client IP; zero disables the limit.
	UploadsPerMinute int
	// UploadsDir, when set, is served under /uploads for archived source files.
	UploadsDir string
}

func NewRouter(
	JWTService jwt.Service,
	reconcileHandler ReconcileHandler,
	reportHandler ReportHandler,
	eventsHandler EventsHandler,
	opts RouterOptions,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendify"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/reconciliations", func(r chi.Router) {
				r.Get("/", reconcileHandler.List)
				r.Post("/", reconcileHandler.Reconcile)

				r.Group(func(r chi.Router) {
					if opts.UploadsPerMinute > 0 {
						r.Use(httprate.Limit(
							opts.UploadsPerMinute,
							time.Minute,
							httprate.WithKeyFuncs(httprate.KeyByIP),
							httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
								response.TooManyRequests(w, "Too many uploads, try again later")
							}),
						))
					}
					r.Post("/upload", reconcileHandler.Upload)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", reconcileHandler.GetByID)
					r.Post("/recompute", reconcileHandler.Recompute)

					r.Get("/records", reportHandler.ListRecords)
					r.Get("/analytics", reportHandler.Analytics)
					r.Get("/export", reportHandler.Export)
					r.Get("/weekly-stats", reportHandler.WeeklyStats)
					r.Post("/weekly-emails", reportHandler.SendWeeklyEmails)
				})
			})

			r.Post("/thresholds/repair", reconcileHandler.RepairThresholds)
		})

		// EventSource cannot set headers, so streams also accept ?jwt=
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/events", eventsHandler.Stream)
			r.Get("/events/{id}", eventsHandler.Stream)
		})
	})

	if opts.UploadsDir != "" {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
		})
	}
	return r
}
