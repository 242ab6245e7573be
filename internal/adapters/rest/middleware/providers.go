package middleware

import (
	"github.com/google/wire"
	"github.com/philly/memo-board/internal/users/application"
)

// ProviderSet is the wire provider set for middleware components
var ProviderSet = wire.NewSet(
	NewBearerAuth,
	wire.Bind(new(Authenticator), new(*application.UserService)),
)
