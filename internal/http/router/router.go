package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/http/handlers"
	mw "virtual-vr-console/internal/http/middleware"
	"virtual-vr-console/internal/logx"
)

const requestTimeout = 5 * time.Second

// Routes groups everything the router mounts.
type Routes struct {
	Logger logx.Logger

	Base   *handlers.Handlers
	Auth   *handlers.AuthHandler
	Admin  *handlers.AdminHandler
	Stream *handlers.StreamHandler
	Pages  *handlers.PageHandler

	// Authn verifies the session token and puts the session on the context.
	Authn func(http.Handler) http.Handler
	// RateLimit returns the per-client limiter of a route group.
	RateLimit func(scope string) func(http.Handler) http.Handler
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(rt Routes) http.Handler {
	logger := rt.Logger
	if logger == nil {
		logger = logx.Nop()
	}
	rateLimit := rt.RateLimit
	if rateLimit == nil {
		rateLimit = func(string) func(http.Handler) http.Handler { return passThrough }
	}
	adminOnly := mw.RequireRole(logger, domain.RoleAdmin)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(mw.Observability(logger))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/ping", rt.Base.Ping)
		r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(rt.Base.HealthcheckHead))
		r.Handle("/metrics", promhttp.Handler())

		r.Get("/", rt.Pages.Root)
		r.Get("/login", rt.Pages.Login)
		r.Get("/admin/signup", rt.Pages.SignUp(domain.RoleAdmin))
		r.Get("/user/signup", rt.Pages.SignUp(domain.RoleUser))
		r.Get("/delivery/signup", rt.Pages.SignUp(domain.RoleDelivery))
		r.Get("/dashboard/admin", rt.Pages.AdminDashboard)
		r.Get("/dashboard/{role}", rt.Pages.Dashboard)

		r.Route("/api/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(rateLimit("auth"))
				r.Post("/login", rt.Auth.Login)
				r.Post("/signup/admin", rt.Auth.SignUpAdmin)
				r.Post("/signup/user", rt.Auth.SignUpCustomer)
				r.Post("/signup/delivery", rt.Auth.SignUpCourier)
			})
			r.Group(func(r chi.Router) {
				r.Use(rt.Authn)
				r.Post("/logout", rt.Auth.Logout)
				r.Get("/me", rt.Auth.Me)
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(rt.Authn, adminOnly)

		// the console stream lives as long as the socket, so no request timeout
		r.Get("/stream", rt.Stream.Serve)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			r.Route("/couriers", func(r chi.Router) {
				r.Get("/", rt.Admin.ListCouriers)
				r.Get("/{id}", rt.Admin.GetCourier)
				r.Patch("/{id}", rt.Admin.UpdateCourier)
				r.Post("/{id}/approve", rt.Admin.ApproveCourier)
				r.Post("/{id}/reject", rt.Admin.RejectCourier)
				r.Put("/{id}/active", rt.Admin.SetCourierActive)
				r.Get("/{id}/history", rt.Admin.CourierHistory)
			})
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", rt.Admin.ListCustomers)
				r.Get("/{id}", rt.Admin.GetCustomer)
				r.Patch("/{id}", rt.Admin.UpdateCustomer)
				r.Put("/{id}/active", rt.Admin.SetCustomerActive)
				r.Put("/{id}/preferential", rt.Admin.SetCustomerPreferential)
				r.Get("/{id}/history", rt.Admin.CustomerHistory)
			})
		})
	})

	r.NotFound(http.HandlerFunc(rt.Base.NotFound))

	return r
}

func passThrough(next http.Handler) http.Handler { return next }
