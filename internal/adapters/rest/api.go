package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ServerInterface is every operation the HTTP API exposes
type ServerInterface interface {
	// (GET /)
	GetRoot(w http.ResponseWriter, r *http.Request)
	// (GET /api/health/live)
	GetLiveness(w http.ResponseWriter, r *http.Request)
	// (GET /api/health/ready)
	GetReadiness(w http.ResponseWriter, r *http.Request)

	// (POST /api/auth/register)
	Register(w http.ResponseWriter, r *http.Request)
	// (POST /api/auth/login)
	Login(w http.ResponseWriter, r *http.Request)

	// (GET /api/posts)
	ListPosts(w http.ResponseWriter, r *http.Request)
	// (POST /api/posts)
	CreatePost(w http.ResponseWriter, r *http.Request)
	// (GET /api/posts/{postId})
	GetPost(w http.ResponseWriter, r *http.Request)
	// (PUT /api/posts/{postId})
	UpdatePost(w http.ResponseWriter, r *http.Request)
	// (DELETE /api/posts/{postId})
	DeletePost(w http.ResponseWriter, r *http.Request)
	// (POST /api/posts/{postId}/views)
	IncrementViews(w http.ResponseWriter, r *http.Request)
	// (POST /api/posts/{postId}/comments)
	AddComment(w http.ResponseWriter, r *http.Request)
	// (PUT /api/posts/{postId}/comments/{commentId})
	EditComment(w http.ResponseWriter, r *http.Request)
	// (DELETE /api/posts/{postId}/comments/{commentId})
	RemoveComment(w http.ResponseWriter, r *http.Request)
}

// MiddlewareFunc wraps a single matched route
type MiddlewareFunc func(http.Handler) http.Handler

// ChiServerOptions configures HandlerWithOptions
type ChiServerOptions struct {
	BaseURL     string
	BaseRouter  chi.Router
	Middlewares []MiddlewareFunc
}

// HandlerWithOptions registers every route of si on a chi router. The
// middlewares run after routing, so chi's route pattern is already known.
// Collection routes answer with and without the trailing slash.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		var handler http.Handler = h
		for _, middleware := range options.Middlewares {
			handler = middleware(handler)
		}
		return handler.ServeHTTP
	}

	base := options.BaseURL
	r.Get(base+"/", wrap(si.GetRoot))
	r.Get(base+"/api/health/live", wrap(si.GetLiveness))
	r.Get(base+"/api/health/ready", wrap(si.GetReadiness))

	r.Route(base+"/api/auth", func(r chi.Router) {
		r.Post("/register", wrap(si.Register))
		r.Post("/login", wrap(si.Login))
	})

	r.Route(base+"/api/posts", func(r chi.Router) {
		r.Get("/", wrap(si.ListPosts))
		r.Post("/", wrap(si.CreatePost))
		r.Get("/{postId}", wrap(si.GetPost))
		r.Put("/{postId}", wrap(si.UpdatePost))
		r.Delete("/{postId}", wrap(si.DeletePost))
		r.Post("/{postId}/views", wrap(si.IncrementViews))
		r.Post("/{postId}/comments", wrap(si.AddComment))
		r.Put("/{postId}/comments/{commentId}", wrap(si.EditComment))
		r.Delete("/{postId}/comments/{commentId}", wrap(si.RemoveComment))
	})

	return r
}
