package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sufragio/api/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	GetAll(ctx context.Context) ([]*domain.Poll, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Poll, error)
	Search(ctx context.Context, limit, offset int, query string) ([]*domain.Poll, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PollStatus, startTime, endTime *time.Time) error
	SetHideResults(ctx context.Context, id uuid.UUID, hide bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreatePollInput struct {
	Title     string
	Type      domain.PollType
	Options   []string
	MaxVoters int
	Settings  domain.PollSettings
}

type ListPollsInput struct {
	Page     int
	Query    string
	OpenOnly bool
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	Activate(ctx context.Context, id string, durationMinutes int) (*domain.Poll, error)
	Extend(ctx context.Context, id string, additionalMinutes int) (*domain.Poll, error)
	Close(ctx context.Context, id string) (*domain.Poll, error)
	Delete(ctx context.Context, id string) error
	SetHideResults(ctx context.Context, id string, hide bool) error
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	ListPolls(ctx context.Context, input ListPollsInput) ([]*domain.Poll, error)
}
