package ports

import "github.com/lcalzada-xor/vulnmap/internal/core/domain"

// EventSink receives best-effort notifications for dashboard push. Publish
// must never block the caller; slow consumers are the sink's problem.
type EventSink interface {
	Publish(event domain.Event)
}
