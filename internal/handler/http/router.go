package http

import (
	"log/slog"
	"os"

	"github.com/gulfline-hr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/gulfline-hr/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(JWTService jwt.Service, payrollHandler PayrollHandler, adjustmentHandler AdjustmentHandler, eventsHandler EventsHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "gulfline-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
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

		// SSE stream authenticates via short-lived query token
		r.Get("/events/stream", eventsHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/events/token", eventsHandler.GetSSEToken)

			r.Route("/payrolls", func(r chi.Router) {
				r.Get("/", payrollHandler.List)
				r.Get("/summary", payrollHandler.Summary)
				r.Post("/generate", payrollHandler.Generate)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetByID)
					r.Post("/actions/{action}", payrollHandler.Transition)
				})
			})

			r.Route("/adjustments/{kind}", func(r chi.Router) {
				r.Post("/", adjustmentHandler.CreateRecord)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", adjustmentHandler.GetRecord)
					r.Post("/actions/{action}", adjustmentHandler.TransitionRecord)
				})
			})

			r.Route("/overtimes", func(r chi.Router) {
				r.Post("/", adjustmentHandler.CreateOvertime)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", adjustmentHandler.GetOvertime)
					r.Post("/approve", adjustmentHandler.ApproveOvertime)
					r.Post("/reject", adjustmentHandler.RejectOvertime)
				})
			})
		})
	})

	return r
}
