package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sufragio/api/internal/core/domain"
	"github.com/sufragio/api/internal/core/ports"
)

// voteService is the tally engine: it validates a vote against the poll's
// current eligibility and delegates the counter mutations to the repository,
// which applies them as one transaction with database-native atomic
// increments. It is the only writer of vote counters.
type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
	}
}

func (s *voteService) RecordVote(ctx context.Context, input ports.VoteInput) error {
	if input.VoterID == "" {
		return fmt.Errorf("%w: voter id is required", domain.ErrValidation)
	}

	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return err
	}

	if !poll.AcceptsVotes(time.Now()) {
		return domain.ErrPollClosed
	}

	switch poll.Type {
	case domain.PollTypeWordCloud:
		return s.recordWord(ctx, poll, input)
	default:
		return s.recordOption(ctx, poll, input)
	}
}

func (s *voteService) recordOption(ctx context.Context, poll *domain.Poll, input ports.VoteInput) error {
	if input.OptionID == nil {
		return fmt.Errorf("%w: option id is required", domain.ErrValidation)
	}
	if !poll.HasOption(*input.OptionID) {
		return domain.ErrInvalidOption
	}

	ballot := &domain.Ballot{
		ID:        uuid.New(),
		PollID:    poll.ID,
		OptionID:  input.OptionID,
		VoterID:   input.VoterID,
		VoterIP:   input.VoterIP,
		CreatedAt: time.Now(),
	}

	prev, err := s.voteRepo.GetBallot(ctx, poll.ID, input.VoterID)
	if err != nil {
		return err
	}
	if prev == nil {
		return s.voteRepo.RecordOptionVote(ctx, ballot)
	}

	if !poll.Settings.AllowEdit {
		return domain.ErrAlreadyVoted
	}
	if prev.OptionID != nil && *prev.OptionID == *input.OptionID {
		// same choice again, nothing to move
		return nil
	}
	return s.voteRepo.ReplaceOptionVote(ctx, ballot)
}

func (s *voteService) recordWord(ctx context.Context, poll *domain.Poll, input ports.VoteInput) error {
	word := domain.NormalizeWord(input.Word)
	if word == "" {
		return fmt.Errorf("%w: word must not be blank", domain.ErrValidation)
	}

	ballot := &domain.Ballot{
		ID:        uuid.New(),
		PollID:    poll.ID,
		Word:      word,
		VoterID:   input.VoterID,
		VoterIP:   input.VoterIP,
		CreatedAt: time.Now(),
	}

	prev, err := s.voteRepo.GetBallot(ctx, poll.ID, input.VoterID)
	if err != nil {
		return err
	}
	if prev == nil {
		return s.voteRepo.RecordWordVote(ctx, ballot)
	}

	if !poll.Settings.AllowEdit {
		return domain.ErrAlreadyVoted
	}
	if prev.Word == word {
		return nil
	}
	return s.voteRepo.ReplaceWordVote(ctx, ballot)
}
