package ownership

import "github.com/google/wire"

// ProviderSet is the wire provider set for the ownership gate
var ProviderSet = wire.NewSet(NewGate)
