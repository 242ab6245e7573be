package auth

import (
	"github.com/google/wire"
	"github.com/philly/memo-board/internal/users/ports"
)

// ProviderSet is the wire provider set for credential handling
var ProviderSet = wire.NewSet(
	NewTokenIssuer,
	NewBcryptHasher,
	wire.Bind(new(ports.TokenIssuer), new(*TokenIssuer)),
	wire.Bind(new(ports.PasswordHasher), new(*BcryptHasher)),
)
