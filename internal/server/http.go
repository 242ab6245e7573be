package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/adapters/rest"
	"github.com/philly/memo-board/internal/adapters/rest/middleware"
	"github.com/philly/memo-board/internal/platform/logger"
)

// publicPatterns are the routes reachable without a bearer token.
// Every other route requires one.
var publicPatterns = map[string]bool{
	"GET /":                 true,
	"GET /api/health/live":  true,
	"GET /api/health/ready": true,

	"POST /api/auth/register": true,
	"POST /api/auth/login":    true,

	// Public posts endpoints
	"GET /api/posts":                 true,
	"GET /api/posts/{postId}":        true,
	"POST /api/posts/{postId}/views": true,
}

// NewHTTPServer creates and configures the HTTP server with all routes
func NewHTTPServer(
	config Config,
	server rest.ServerInterface,
	bearerAuth *middleware.BearerAuth,
	log logger.Logger,
) *http.Server {
	return &http.Server{
		Addr:         config.ServerAddress,
		Handler:      NewHandler(server, bearerAuth, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewHandler builds the router with its middleware stack
func NewHandler(server rest.ServerInterface, bearerAuth *middleware.BearerAuth, log logger.Logger) http.Handler {
	// Create chi router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSONError(w, middleware.ErrorCodeNotFound, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSONError(w, middleware.ErrorCodeMethodNotAllowed, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// Protected endpoints (bearer token required)
	protectedMiddlewares := []rest.MiddlewareFunc{
		wrapMiddleware(bearerAuth.Middleware),
	}

	// Register API routes on chi router with a route-aware middleware
	_ = rest.HandlerWithOptions(server, rest.ChiServerOptions{
		BaseRouter: r,
		Middlewares: []rest.MiddlewareFunc{
			routeAwareChiMiddleware(publicPatterns, protectedMiddlewares),
		},
	})

	// Wrap with observability middleware
	return withObservability(r, log)
}

// routeAwareChiMiddleware applies auth middlewares based on matched chi route pattern
func routeAwareChiMiddleware(
	public map[string]bool,
	defaults []rest.MiddlewareFunc,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// chi exposes the current route pattern via RouteContext
			routeCtx := chi.RouteContext(r.Context())
			method := r.Method
			if method == http.MethodHead {
				method = http.MethodGet
			}
			pattern := ""
			if routeCtx != nil {
				pattern = method + " " + normalizePattern(routeCtx.RoutePattern())
			}

			// Public endpoints bypass
			if public[pattern] || public[method+" "+normalizePattern(r.URL.Path)] {
				next.ServeHTTP(w, r)
				return
			}

			// Default protected endpoints
			handler := next
			for i := len(defaults) - 1; i >= 0; i-- {
				handler = defaults[i](handler)
			}
			handler.ServeHTTP(w, r)
		})
	}
}

// normalizePattern drops the trailing slash so "/api/posts" and
// "/api/posts/" share one entry
func normalizePattern(p string) string {
	if p == "/" || p == "" {
		return "/"
	}
	return strings.TrimSuffix(p, "/")
}

// wrapMiddleware converts a standard middleware to the router's MiddlewareFunc
func wrapMiddleware(mw func(http.Handler) http.Handler) rest.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return mw(next)
	}
}

// withObservability adds request logging
func withObservability(handler http.Handler, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Use chi's response writer wrapper to capture status code and bytes written
		wrr := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		// The bearer middleware runs further in; the slot lets us see who it let through
		ctx, identity := middleware.TrackIdentity(r.Context())

		// Process the request
		handler.ServeHTTP(wrr, r.WithContext(ctx))

		// Log request details
		duration := time.Since(start)

		var userID string
		if uid := identity.UserID(); uid != uuid.Nil {
			userID = uid.String()
		}

		log.Info(ctx, "HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrr.Status(),
			"bytes", wrr.BytesWritten(),
			"duration_ms", duration.Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"user_id", userID,
		)
	})
}
