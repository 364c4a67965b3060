package http

//go:generate swag init -g router.go -d ./,../../../pkg/palisdk -o ../../../api/pali --parseDependency --outputTypes go

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
	"github.com/aussiebroadwan/pali/internal/pali/service"
	"github.com/aussiebroadwan/pali/internal/pali/store"
	"github.com/aussiebroadwan/pali/pkg/httpx"
	"github.com/aussiebroadwan/pali/pkg/palisdk"
	"github.com/aussiebroadwan/pali/pkg/slogx"

	_ "github.com/aussiebroadwan/pali/api/pali" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	limits       httpx.Limits
	clientIP     *httpx.ClientIP

	AuthService      *service.AuthService
	LifecycleService *service.LifecycleService
	TodoService      *service.TodoService

	// RecoveryToken, when set, must accompany /initialize and /reinitialize.
	RecoveryToken string
}

// RouterConfig carries the HTTP settings taken from the service config.
type RouterConfig struct {
	CORSOrigins []string
	// RateLimits falls back to httpx.DefaultLimits when left zero.
	RateLimits httpx.Limits
	// TrustedProxies are the peers whose forwarding headers name the client.
	TrustedProxies []netip.Prefix
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger, cfg RouterConfig) *Router {
	limits := cfg.RateLimits
	if limits == (httpx.Limits{}) {
		limits = httpx.DefaultLimits()
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		limits:       limits,
		clientIP:     httpx.NewClientIP(cfg.TrustedProxies),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(cfg.CORSOrigins, palisdk.HeaderAPIKey, palisdk.HeaderRecoveryToken),
	}

	return r
}

// limit returns a per-client limiter with its own set of buckets.
func (r *Router) limit(l httpx.Limit) httpx.Middleware {
	return httpx.RateLimit(l, r.clientIP.Resolve)
}

func (r *Router) ApplyRoutes() {
	r.registerLifecycle()
	r.registerKeys()
	r.registerTodos()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Pali Server API
//	@version					1.0
//	@description				Self-hosted todo management gated by API keys.
//	@description
//	@description				Keys are opaque secrets sent in the X-API-Key header. The first admin key is
//	@description				minted by POST /initialize; lost admin access is recovered with POST /reinitialize.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/pali
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	APIKeyAuth
//	@in							header
//	@name						X-API-Key
//	@description				API key issued by /initialize or /admin/keys/generate.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerLifecycle() {
	h := &LifecycleHandler{LifecycleService: r.LifecycleService}

	// Unauthenticated and state-guarded, so held to the strictest limit.
	r.Mux.Handle("POST /initialize",
		httpx.Chain(http.HandlerFunc(h.HandleInitialize),
			r.limit(r.limits.Strict),
			recoveryToken(r.RecoveryToken),
		),
	)
	r.Mux.Handle("POST /reinitialize",
		httpx.Chain(http.HandlerFunc(h.HandleReinitialize),
			r.limit(r.limits.Strict),
			recoveryToken(r.RecoveryToken),
		),
	)
}

func (r *Router) registerKeys() {
	h := &KeysHandler{LifecycleService: r.LifecycleService}

	admin := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			r.limit(r.limits.Moderate),
			apiKeyAuthn(r.AuthService),
			requireCapability(domain.CapabilityManageKeys),
		)
	}

	r.Mux.Handle("POST /admin/keys/generate", admin(h.HandleGenerate))
	r.Mux.Handle("GET /admin/keys", admin(h.HandleList))
	r.Mux.Handle("DELETE /admin/keys/{id}", admin(h.HandleDelete))

	r.Mux.Handle("POST /admin/keys/rotate",
		httpx.Chain(http.HandlerFunc(HandleRotateGone),
			r.limit(r.limits.Moderate),
		),
	)
}

func (r *Router) registerTodos() {
	h := &TodosHandler{TodoService: r.TodoService}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			r.limit(r.limits.Lenient),
			apiKeyAuthn(r.AuthService),
			requireAnyCapability("Forbidden", domain.CapabilityUseResources),
		)
	}

	r.Mux.Handle("POST /todos", secured(h.HandleCreate))
	r.Mux.Handle("GET /todos", secured(h.HandleList))
	r.Mux.Handle("GET /todos/search", secured(h.HandleSearch))
	r.Mux.Handle("GET /todos/resolve/{prefix}", secured(h.HandleResolve))
	r.Mux.Handle("GET /todos/{id}", secured(h.HandleGet))
	r.Mux.Handle("PUT /todos/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /todos/{id}", secured(h.HandleDelete))
	r.Mux.Handle("PATCH /todos/{id}/toggle", secured(h.HandleToggle))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /{$}",
		httpx.Chain(http.HandlerFunc(HandleRoot),
			r.limit(r.limits.Public),
		),
	)
	// Monitoring systems may poll frequently.
	r.Mux.Handle("GET /health",
		httpx.Chain(http.HandlerFunc(HandleHealth),
			r.limit(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			r.limit(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			r.limit(r.limits.Lenient),
		),
	)
}
