package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/edunexus/internal/config"
	authctl "github.com/dropDatabas3/edunexus/internal/http/controllers/auth"
	healthctl "github.com/dropDatabas3/edunexus/internal/http/controllers/health"
	instctl "github.com/dropDatabas3/edunexus/internal/http/controllers/institute"
	"github.com/dropDatabas3/edunexus/internal/http/middlewares"
	"github.com/dropDatabas3/edunexus/internal/jwt"
	"github.com/dropDatabas3/edunexus/internal/rate"
)

// RouterDeps agrupa lo que el router necesita ya construido.
type RouterDeps struct {
	Cfg        *config.Config
	Issuer     *jwt.Issuer
	Limiter    rate.Limiter
	Institutes *instctl.Controller
	Auth       *authctl.Controller
	Health     *healthctl.Controller
}

// NewRouter arma el árbol de rutas completo: API versionada, endpoints de
// operación y la sección navegable de la app detrás del gate de roles.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middlewares.RequestID)
	r.Use(middlewares.Logging)
	r.Use(middlewares.Recover)
	r.Use(middlewares.SecurityHeaders)
	r.Use(middlewares.CORS(d.Cfg.Server.CORSAllowedOrigins))
	r.Use(Metrics)
	r.Use(middlewares.Authenticate(d.Issuer))

	// operación
	r.Get("/healthz", d.Health.HandleHealthz)
	r.Get("/readyz", d.Health.HandleReadyz)
	r.Method(http.MethodGet, "/metrics", MetricsHandler())

	loginWindow, _ := time.ParseDuration(d.Cfg.Rate.Login.Window)
	sendWindow, _ := time.ParseDuration(d.Cfg.Rate.SendCode.Window)

	// API
	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/institutes", func(ir chi.Router) {
			ir.Post("/", d.Institutes.HandleRegister)
			ir.With(rateMW(d, "send-code", d.Cfg.Rate.SendCode.Limit, sendWindow)).
				Post("/send-code", d.Institutes.HandleSendCode)
			ir.Post("/verify-code", d.Institutes.HandleVerifyCode)
			ir.Get("/check-email", d.Institutes.HandleCheckEmail)
			ir.Get("/{identifier}", d.Institutes.HandleGet)
			ir.With(middlewares.RequireRole(jwt.RoleInstitute)).
				Put("/", d.Institutes.HandleUpdate)
		})

		v1.With(rateMW(d, "login", d.Cfg.Rate.Login.Limit, loginWindow)).
			Post("/auth/login", d.Auth.HandleLogin)
		v1.Post("/auth/logout", d.Auth.HandleLogout)
		v1.With(middlewares.RequireAuth).Get("/me", d.Auth.HandleMe)
	})

	// sección navegable, detrás del gate
	r.Group(func(app chi.Router) {
		app.Use(middlewares.Gate)
		registerPages(app)
	})

	return r
}

// rateMW arma el middleware de rate limiting; con rate.enabled=false es un
// passthrough.
func rateMW(d RouterDeps, key string, limit int, window time.Duration) func(http.Handler) http.Handler {
	if !d.Cfg.Rate.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return middlewares.RateLimit(d.Limiter, key, limit, window)
}
