package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cafcollect/caf-backend/api/controllers"
	"github.com/cafcollect/caf-backend/api/middleware"
	"github.com/cafcollect/caf-backend/internal/auth"
	"github.com/cafcollect/caf-backend/internal/pdv"
	"github.com/cafcollect/caf-backend/internal/rapports"
	"github.com/cafcollect/caf-backend/internal/recouvrements"
	"github.com/cafcollect/caf-backend/internal/settings"
	"github.com/cafcollect/caf-backend/internal/users"
	"github.com/cafcollect/caf-backend/pkg/config"
	"github.com/cafcollect/caf-backend/pkg/db"
	"github.com/cafcollect/caf-backend/pkg/enums"
	"github.com/cafcollect/caf-backend/pkg/logger"
	"github.com/cafcollect/caf-backend/pkg/metrics"
	"github.com/cafcollect/caf-backend/pkg/redis"
)

// Services groups the wired domain services handed to the router.
type Services struct {
	Auth          auth.Service
	Users         users.Service
	PDV           pdv.Service
	Recouvrements recouvrements.Service
	Settings      settings.Service
	Rapports      rapports.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	var registerer prometheus.Registerer
	if registry != nil {
		registerer = registry
	}
	httpMetrics := metrics.NewHTTPMetrics(registerer)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginPhoneLimit,
	)

	r.Route("/health", func(r chi.Router) {
		deps := map[string]controllers.Pinger{"database": dbP}
		if redisClient != nil {
			deps["redis"] = redisClient
		}
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		if redisClient != nil {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		} else {
			r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		}
		r.With(middleware.Auth(cfg.JWT, logg)).Post("/logout", controllers.AuthLogout())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/settings", controllers.SettingsGet(svcs.Settings, logg))

		r.Route("/pdv", func(r chi.Router) {
			r.Get("/", controllers.PDVList(svcs.PDV, logg))
			r.Post("/", controllers.PDVCreate(svcs.PDV, logg))
			r.Get("/{id}", controllers.PDVGet(svcs.PDV, logg))
			r.With(middleware.RequireAdmin(logg)).Patch("/{id}", controllers.PDVUpdate(svcs.PDV, logg))
			r.With(middleware.RequireAdmin(logg)).Delete("/{id}", controllers.PDVDelete(svcs.PDV, logg))
		})

		r.Route("/recouvrements", func(r chi.Router) {
			r.Get("/", controllers.RecouvrementsList(svcs.Recouvrements, logg))
			r.With(middleware.RequireRole(enums.UserRoleAgent, logg)).Post("/", controllers.RecouvrementsCreate(svcs.Recouvrements, logg))
			r.Get("/{id}", controllers.RecouvrementsGet(svcs.Recouvrements, logg))
			r.With(middleware.RequireAdmin(logg)).Patch("/{id}/status", controllers.RecouvrementsUpdateStatus(svcs.Recouvrements, logg))
		})

		r.Route("/agent", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleAgent, logg))
			r.Get("/stats", controllers.AgentStats(svcs.Rapports, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.UsersList(svcs.Users, logg))
				r.Post("/", controllers.UsersCreate(svcs.Users, logg))
				r.Get("/{id}", controllers.UsersGet(svcs.Users, logg))
				r.Patch("/{id}", controllers.UsersUpdate(svcs.Users, logg))
				r.Delete("/{id}", controllers.UsersDeactivate(svcs.Users, logg))
			})

			r.Route("/rapports", func(r chi.Router) {
				r.Get("/summary", controllers.RapportsSummary(svcs.Rapports, logg))
				r.Get("/par-jour", controllers.RapportsParJour(svcs.Rapports, logg))
				r.Get("/par-categorie", controllers.RapportsParCategorie(svcs.Rapports, logg))
				r.Get("/par-methode", controllers.RapportsParMethode(svcs.Rapports, logg))
				r.Get("/top-agents", controllers.RapportsTopAgents(svcs.Rapports, logg))
				r.Get("/top-pdvs", controllers.RapportsTopPDVs(svcs.Rapports, logg))
			})

			r.Get("/admin/stats", controllers.AdminStats(svcs.Rapports, logg))

			r.Patch("/settings/profile", controllers.SettingsUpdateProfile(svcs.Settings, logg))
			r.Patch("/settings/commission", controllers.SettingsUpdateCommission(svcs.Settings, logg))
		})
	})

	return r
}
