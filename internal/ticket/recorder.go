// Package ticket records support tickets in an append-only log.
package ticket

import (
	"context"
	"time"

	"github.com/xaenox/support-bot/internal/models"
)

// Recorder appends support-ticket records to durable storage. Records are
// never mutated or deleted here; status transitions happen downstream.
type Recorder interface {
	Create(ctx context.Context, query, contact string) (*models.Ticket, error)
	List(ctx context.Context, limit int) ([]models.Ticket, error)
	Close() error
}

// newTicket builds an open ticket stamped with the current time. The id is
// the Unix timestamp at seconds resolution; sub-second concurrent creation
// can collide, which is an accepted limitation of the id scheme.
func newTicket(query, contact string) *models.Ticket {
	now := time.Now().UTC()
	return &models.Ticket{
		ID:        now.Unix(),
		Query:     query,
		Contact:   contact,
		Status:    models.TicketStatusOpen,
		CreatedAt: now,
	}
}
