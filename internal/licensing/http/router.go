package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/keyhaven/keyhaven/internal/licensing/service"
	"github.com/keyhaven/keyhaven/internal/licensing/store"
	"github.com/keyhaven/keyhaven/pkg/httpx"
	"github.com/keyhaven/keyhaven/pkg/slogx"

	_ "github.com/keyhaven/keyhaven/api/licensing" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	requestTimeout time.Duration

	AccessService     *service.AccessService
	RegistryService   *service.RegistryService
	KeyService        *service.KeyService
	ValidationService *service.ValidationService
	SupportService    *service.SupportService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	requestTimeout time.Duration,
	corsOrigins []string,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		store:          st,
		requestTimeout: requestTimeout,
		logger:         logger,
	}

	// Set default middleware chain. CORS sits outermost so even rejected
	// requests get the headers.
	r.middlewares = []httpx.Middleware{
		cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}),
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	actions := &ActionsHandler{
		Access:     r.AccessService,
		Registry:   r.RegistryService,
		Keys:       r.KeyService,
		Validation: r.ValidationService,
		Support:    r.SupportService,
		Timeout:    r.requestTimeout,
	}
	r.Mux.Handle("POST /v1/actions", actions)

	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			KeyHaven Licensing Service API
//	@version		0.1.0
//	@description	License-key issuance and validation service. Applications are
//	@description	registered tenants identified by a unique API key; license keys
//	@description	are time-limited tokens bound to hardware identifiers at
//	@description	validation time.
//
//	@contact.name	KeyHaven Team
//	@contact.url	https://github.com/keyhaven/keyhaven
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}
