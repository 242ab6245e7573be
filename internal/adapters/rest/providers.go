package rest

import (
	"github.com/google/wire"
)

// ProviderSet is the wire provider set for REST handlers
var ProviderSet = wire.NewSet(
	NewBaseHandler,
	NewHealthHandler,
	NewAuthHandler,
	NewPostsHandler,
	NewServer, // Combined server that implements ServerInterface
)
