package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/adapters/middleware"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
)

// MetricsExporter records requests and serves the scrape endpoint.
type MetricsExporter interface {
	middleware.RequestObserver
	Handler() http.Handler
}

// Router holds everything the HTTP surface needs. RateLimiter and Metrics are optional.
type Router struct {
	Auth        *AuthHandler
	Complaints  *ComplaintHandler
	Users       *UserHandler
	Departments *DepartmentHandler
	Alerts      *AlertHandler
	Jobs        *JobHandler
	Locations   *LocationHandler
	Analytics   *AnalyticsHandler
	Upload      *UploadHandler
	Health      *HealthHandler

	Authenticator  *middleware.AuthMiddleware
	RateLimiter    *middleware.ComplaintRateLimiter
	Metrics        MetricsExporter
	UploadDir      string
	AllowedOrigins []string
	Logger         *zap.Logger
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	var observer middleware.RequestObserver
	if rt.Metrics != nil {
		observer = rt.Metrics
	}
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.RequestLogger(rt.Logger, observer),
		chimw.Recoverer,
		middleware.CORS(rt.AllowedOrigins),
	)

	// Health endpoints (Kubernetes compatible)
	r.Get("/health", rt.Health.Health)
	r.Get("/health/live", rt.Health.Live)
	r.Get("/health/ready", rt.Health.Ready)
	if rt.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.Metrics.Handler())
	}
	if rt.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(rt.UploadDir))))
	}

	authn := rt.Authenticator.Authenticate
	superAdmin := middleware.RequireRole(domain.RoleSuperAdmin)
	citizen := middleware.RequireRole(domain.RoleCitizen)
	staff := middleware.RequireRole(domain.RoleDeptAdmin, domain.RoleSuperAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.Auth.Register)
			r.Post("/login", rt.Auth.Login)
			r.Post("/send-email-otp", rt.Auth.SendEmailOtp)
			r.Post("/send-mobile-otp", rt.Auth.SendMobileOtp)
			r.Post("/verify-email-otp", rt.Auth.VerifyEmailOtp)
			r.Post("/verify-mobile-otp", rt.Auth.VerifyMobileOtp)
			r.With(authn).Get("/me", rt.Auth.Me)
		})

		// Public reads
		r.Get("/departments", rt.Departments.List)
		r.Get("/alerts", rt.Alerts.Recent)
		r.Get("/jobs", rt.Jobs.List)
		r.Get("/explore-locations", rt.Locations.List)

		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Get("/complaints/public", rt.Complaints.Public)
			r.Get("/complaints", rt.Complaints.List)
			r.Get("/complaints/{id}", rt.Complaints.Get)
			r.With(rt.complaintLimit).Post("/complaints", rt.Complaints.Create)
			r.With(staff).Patch("/complaints/{id}", rt.Complaints.UpdateStatus)

			r.With(citizen).Post("/jobs/{id}/apply", rt.Jobs.Apply)
			r.With(citizen).Get("/jobs/{id}/application", rt.Jobs.Application)
			r.With(citizen).Get("/jobs/applications/mine", rt.Jobs.MyApplications)

			r.Post("/upload", rt.Upload.Upload)

			// Self-deletion is refused for every role, so the service makes the call.
			r.Delete("/users/{id}", rt.Users.Delete)

			r.Group(func(r chi.Router) {
				r.Use(superAdmin)

				r.Post("/departments", rt.Departments.Create)
				r.Post("/alerts", rt.Alerts.Create)
				r.Post("/jobs", rt.Jobs.Create)
				r.Get("/jobs/{id}/applications", rt.Jobs.Applicants)
				r.Patch("/jobs/applications/{id}", rt.Jobs.Review)
				r.Post("/explore-locations", rt.Locations.Create)
				r.Delete("/explore-locations/{id}", rt.Locations.Delete)

				r.Get("/users", rt.Users.List)
				r.Post("/users", rt.Users.Create)
				r.Patch("/users/{id}", rt.Users.AssignRole)

				r.Get("/analytics", rt.Analytics.Stats)
				r.Get("/analytics/export", rt.Analytics.Export)
			})
		})
	})

	return r
}

func (rt *Router) complaintLimit(next http.Handler) http.Handler {
	if rt.RateLimiter == nil {
		return next
	}
	return rt.RateLimiter.Limit(next)
}
