package identity_adapter

import (
	"github.com/google/wire"
	postsPorts "github.com/philly/memo-board/internal/posts/ports"
)

// ProviderSet is the wire provider set for the identity adapter
var ProviderSet = wire.NewSet(
	NewIdentityAdapter,
	wire.Bind(new(postsPorts.IdentityResolver), new(*IdentityAdapter)),
)
