package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sufragio/api/internal/core/domain"
)

// VoteRepository applies one vote as a single transactional unit: the ballot
// insert, the counter increment and the poll total increment either all
// commit or none do. Increments must be database-native atomic updates, never
// read-modify-write, so concurrent votes on the same option or word are both
// reflected.
type VoteRepository interface {
	RecordOptionVote(ctx context.Context, ballot *domain.Ballot) error
	RecordWordVote(ctx context.Context, ballot *domain.Ballot) error
	// ReplaceOptionVote and ReplaceWordVote move an existing ballot to a new
	// choice: the previous counter is decremented and the new one incremented
	// in the same transaction, leaving the poll total unchanged.
	ReplaceOptionVote(ctx context.Context, ballot *domain.Ballot) error
	ReplaceWordVote(ctx context.Context, ballot *domain.Ballot) error
	GetBallot(ctx context.Context, pollID uuid.UUID, voterID string) (*domain.Ballot, error)
}

type VoteInput struct {
	PollID   uuid.UUID
	OptionID *uuid.UUID
	Word     string
	VoterID  string
	VoterIP  string
}

type VoteService interface {
	RecordVote(ctx context.Context, input VoteInput) error
}
