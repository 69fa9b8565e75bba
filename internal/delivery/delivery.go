// Package delivery defines the contract shared by every inbound transport.
package delivery

import "context"

// Delivery is a server that accepts requests until its lifecycle stops it.
type Delivery interface {
	// Serve blocks, accepting requests until shutdown.
	Serve(ctx context.Context) error
}
