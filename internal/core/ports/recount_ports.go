package ports

import (
	"context"

	"github.com/google/uuid"
)

// RecountRepository rebuilds a poll's denormalized counters from its ballot
// ledger. Used by the cron recount job as a consistency repair, not by the
// live voting path.
type RecountRepository interface {
	RecountPoll(ctx context.Context, pollID uuid.UUID) error
}

type RecountService interface {
	RecountAllPolls(ctx context.Context) error
}
