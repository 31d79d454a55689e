package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sufragio/api/internal/core/domain"
	"github.com/sufragio/api/internal/core/ports"
)

const listPageSize = 20

// pollService owns the poll state machine: DRAFT → ACTIVE → CLOSED, with an
// explicit extend transition re-opening a closed poll. It is the only writer
// of status, start_time and end_time.
type pollService struct {
	repo ports.PollRepository
}

func NewPollService(repo ports.PollRepository) ports.PollService {
	return &pollService{
		repo: repo,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if input.MaxVoters < 1 {
		return nil, fmt.Errorf("%w: max voters must be at least 1", domain.ErrValidation)
	}

	pollID := uuid.New()
	now := time.Now()

	poll := &domain.Poll{
		ID:         pollID,
		Title:      input.Title,
		Type:       input.Type,
		Status:     domain.PollStatusDraft,
		MaxVoters:  input.MaxVoters,
		TotalVotes: 0,
		Settings:   input.Settings,
		CreatedAt:  now,
	}

	switch input.Type {
	case domain.PollTypeBoolean:
		for _, seed := range domain.BooleanOptionSeeds {
			poll.Options = append(poll.Options, domain.Option{
				ID:        uuid.New(),
				PollID:    pollID,
				Text:      seed.Text,
				Color:     seed.Color,
				CreatedAt: now,
			})
		}
	case domain.PollTypeMultiple:
		if len(input.Options) < 2 || len(input.Options) > 6 {
			return nil, fmt.Errorf("%w: multiple polls require 2 to 6 options", domain.ErrValidation)
		}
		for _, optText := range input.Options {
			if optText == "" {
				return nil, fmt.Errorf("%w: option text must not be blank", domain.ErrValidation)
			}
			poll.Options = append(poll.Options, domain.Option{
				ID:        uuid.New(),
				PollID:    pollID,
				Text:      optText,
				CreatedAt: now,
			})
		}
	case domain.PollTypeWordCloud:
		if len(input.Options) > 0 {
			return nil, fmt.Errorf("%w: wordcloud polls take no options", domain.ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unknown poll type %q", domain.ErrValidation, input.Type)
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

func (s *pollService) Activate(ctx context.Context, id string, durationMinutes int) (*domain.Poll, error) {
	if durationMinutes < 1 {
		return nil, fmt.Errorf("%w: duration must be at least one minute", domain.ErrValidation)
	}

	poll, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if poll.Status == domain.PollStatusActive {
		return nil, fmt.Errorf("%w: poll is already active", domain.ErrInvalidTransition)
	}

	now := time.Now()
	endTime := now.Add(time.Duration(durationMinutes) * time.Minute)
	if err := s.repo.UpdateStatus(ctx, poll.ID, domain.PollStatusActive, &now, &endTime); err != nil {
		return nil, err
	}

	poll.Status = domain.PollStatusActive
	poll.StartTime = &now
	poll.EndTime = &endTime
	return poll, nil
}

// Extend re-opens a closed poll or pushes out an active one. The new window
// is a fresh additionalMinutes from now, not cumulative with remaining time.
func (s *pollService) Extend(ctx context.Context, id string, additionalMinutes int) (*domain.Poll, error) {
	if additionalMinutes < 1 {
		return nil, fmt.Errorf("%w: extension must be at least one minute", domain.ErrValidation)
	}

	poll, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if poll.Status == domain.PollStatusDraft {
		return nil, fmt.Errorf("%w: draft polls cannot be extended", domain.ErrInvalidTransition)
	}

	now := time.Now()
	endTime := now.Add(time.Duration(additionalMinutes) * time.Minute)
	startTime := poll.StartTime
	if startTime == nil {
		startTime = &now
	}
	if err := s.repo.UpdateStatus(ctx, poll.ID, domain.PollStatusActive, startTime, &endTime); err != nil {
		return nil, err
	}

	poll.Status = domain.PollStatusActive
	poll.StartTime = startTime
	poll.EndTime = &endTime
	return poll, nil
}

// Close transitions an active poll to CLOSED. Closing an already-closed poll
// is a no-op success.
func (s *pollService) Close(ctx context.Context, id string) (*domain.Poll, error) {
	poll, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if poll.Status == domain.PollStatusClosed {
		return poll, nil
	}
	if poll.Status == domain.PollStatusDraft {
		return nil, fmt.Errorf("%w: poll was never activated", domain.ErrInvalidTransition)
	}

	now := time.Now()
	endTime := poll.EndTime
	if endTime == nil || endTime.After(now) {
		endTime = &now
	}
	if err := s.repo.UpdateStatus(ctx, poll.ID, domain.PollStatusClosed, poll.StartTime, endTime); err != nil {
		return nil, err
	}

	poll.Status = domain.PollStatusClosed
	poll.EndTime = endTime
	return poll, nil
}

func (s *pollService) Delete(ctx context.Context, id string) error {
	poll, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, poll.ID)
}

func (s *pollService) SetHideResults(ctx context.Context, id string, hide bool) error {
	poll, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.SetHideResults(ctx, poll.ID, hide)
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	return s.getByID(ctx, id)
}

func (s *pollService) ListPolls(ctx context.Context, input ports.ListPollsInput) ([]*domain.Poll, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * listPageSize

	var polls []*domain.Poll
	var err error
	if input.Query != "" {
		polls, err = s.repo.Search(ctx, listPageSize, offset, input.Query)
	} else {
		polls, err = s.repo.List(ctx, listPageSize, offset)
	}
	if err != nil {
		return nil, err
	}

	if !input.OpenOnly {
		return polls, nil
	}

	now := time.Now()
	open := make([]*domain.Poll, 0, len(polls))
	for _, poll := range polls {
		if poll.AcceptsVotes(now) {
			open = append(open, poll)
		}
	}
	return open, nil
}

func (s *pollService) getByID(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}
	return s.repo.GetByID(ctx, pollID)
}
