// Package notify delivers fire-and-forget notifications about newly created
// service requests. Delivery runs on background workers; failures are logged
// and counted, never surfaced to the request that triggered them.
package notify

import (
	"context"

	"github.com/FelixFS3D/uixom/internal/core/domain"
)

// Sender delivers a single request-created notification over one channel.
type Sender interface {
	// Name identifies the channel in logs and metrics ("mail", "webhook").
	Name() string
	Send(ctx context.Context, r *domain.ServiceRequest) error
}
