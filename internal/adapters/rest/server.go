package rest

// Server combines all handlers to implement ServerInterface
type Server struct {
	*HealthHandler
	*AuthHandler
	*PostsHandler
}

// NewServer creates a new server that implements ServerInterface
func NewServer(
	healthHandler *HealthHandler,
	authHandler *AuthHandler,
	postsHandler *PostsHandler,
) ServerInterface {
	return &Server{
		HealthHandler: healthHandler,
		AuthHandler:   authHandler,
		PostsHandler:  postsHandler,
	}
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)
