// internal/notify/deliver.go
//
// Delivery stub.
//
// Context
//   Notification transport (chat integration, email digests) belongs to an
//   external layer; the core only decides what records to create.  Until a
//   real publisher is wired in, this stub logs the payload and returns so
//   callers proceed without blocking.
//
//   Replace the body with code that publishes to the queue of choice when
//   the transport lands.
//
//------------------------------------------------------------------------------

package notify

import (
	"go.uber.org/zap"

	"github.com/yanizio/seonet/internal/metrics"
)

// Deliver hands one freshly-created notification to the (stub) transport.
func Deliver(n *Notification) {
	metrics.NotificationEmitTotal.Inc()
	zap.S().Infow("notification queued",
		"network", n.NetworkID,
		"type", n.Type,
		"node", n.AffectedNode,
		"actor", n.ActorEmail,
	)
}
