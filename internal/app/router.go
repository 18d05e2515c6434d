package app

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"

	"github.com/R3E-Network/modulith/internal/app/metrics"
	"github.com/R3E-Network/modulith/internal/httputil"
	"github.com/R3E-Network/modulith/internal/middleware"
	"github.com/R3E-Network/modulith/internal/plugin"
)

// routes builds the host router (host endpoints, then every module's
// endpoints in load order) and wraps it in the shared middleware chain.
// The chain sits outside the router so unmatched requests are traced,
// logged and throttled like any other. Metrics stay inside to see the
// matched route template.
func (a *Application) routes() (http.Handler, error) {
	router := mux.NewRouter()
	router.Use(metrics.InstrumentHandler)
	router.NotFoundHandler = metrics.InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteProblem(w, r, http.StatusNotFound, nil)
	}))
	router.MethodNotAllowedHandler = metrics.InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteProblem(w, r, http.StatusMethodNotAllowed, nil)
	}))

	router.HandleFunc("/health", a.health).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	plugin.MapEndpoints(router, a.modules)

	realIP, err := middleware.TrustedRealIP(a.cfg.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}

	// outermost first
	chain := []func(http.Handler) http.Handler{
		realIP,
		chimw.Recoverer,
		middleware.LoggingMiddleware(a.log.Named("http")),
		a.limiter.Handler,
	}
	if a.cfg.Auth.Enabled() {
		auth := middleware.NewAuthMiddleware(a.cfg.Auth.JWTSecret, a.log.Named("auth"), []string{"/health", "/metrics"})
		chain = append(chain, auth.Handler)
	}

	var handler http.Handler = router
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}
	return handler, nil
}
