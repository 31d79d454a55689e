package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/sufragio/api/internal/core/ports"
)

type recountService struct {
	pollRepo    ports.PollRepository
	recountRepo ports.RecountRepository
}

// NewRecountService builds the batch job that rebuilds every poll's counters
// from its ballot ledger. It repairs drift only; the live vote path never
// depends on it.
func NewRecountService(pollRepo ports.PollRepository, recountRepo ports.RecountRepository) ports.RecountService {
	return &recountService{
		pollRepo:    pollRepo,
		recountRepo: recountRepo,
	}
}

func (s *recountService) RecountAllPolls(ctx context.Context) error {
	polls, err := s.pollRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all polls: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(polls))

	for _, poll := range polls {
		wg.Add(1)
		go func(pID [16]byte) { // passing ID by value (uuid.UUID is [16]byte) to avoid closure issues
			defer wg.Done()
			if err := s.recountRepo.RecountPoll(ctx, pID); err != nil {
				errChan <- fmt.Errorf("failed to recount poll %s: %w", pID, err)
			}
		}(poll.ID)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}

	return nil
}
