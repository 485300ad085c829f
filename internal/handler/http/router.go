package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldwork-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	LogLevel       slog.Level
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	closeRequestHandler CloseRequestHandler,
	payrollHandler PayrollHandler,
	repairHandler RepairHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fieldwork-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
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

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/arrival", attendanceHandler.RecordArrival)
				r.Post("/departure", attendanceHandler.RecordDeparture)
				r.Post("/offsite", attendanceHandler.RecordOffsite)
				r.Get("/status", attendanceHandler.GetStatus)
				r.Post("/close-requests", closeRequestHandler.Create)
			})

			r.Get("/me/summary", payrollHandler.GetMySummary)

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/events", func(r chi.Router) {
					r.Get("/", attendanceHandler.ListEvents)
					r.Patch("/{id}", attendanceHandler.EditEventTime)
				})

				r.Route("/close-requests", func(r chi.Router) {
					r.Get("/", closeRequestHandler.List)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", closeRequestHandler.Get)
						r.Post("/approve", closeRequestHandler.Approve)
						r.Post("/reject", closeRequestHandler.Reject)
					})
				})

				r.Get("/payouts", payrollHandler.GetPayouts)

				r.Route("/workers/{id}", func(r chi.Router) {
					r.Get("/summary", payrollHandler.GetWorkerSummary)
					r.Get("/invoice", payrollHandler.GetSiteInvoice)
					r.Post("/days/{day}/pay", payrollHandler.MarkDayPaid)
				})

				r.Post("/repair/arrival-times", repairHandler.RepairArrivalTimes)
			})
		})
	})
	return r
}
