package services

import (
	"math"
	"sort"

	"github.com/sufragio/api/internal/core/domain"
	"github.com/sufragio/api/internal/core/ports"
)

type resultsService struct{}

// NewResultsService returns the read-only aggregator. It works purely on
// polls already fetched from the store and is recomputed on every fetch.
func NewResultsService() ports.ResultsService {
	return &resultsService{}
}

func (s *resultsService) LeadingOption(poll *domain.Poll) domain.Leader {
	if len(poll.Options) == 0 || poll.TotalVotes == 0 {
		return domain.Leader{}
	}

	best := 0
	tie := false
	for i := 1; i < len(poll.Options); i++ {
		switch {
		case poll.Options[i].Votes > poll.Options[best].Votes:
			best = i
			tie = false
		case poll.Options[i].Votes == poll.Options[best].Votes:
			tie = true
		}
	}

	if tie {
		return domain.Leader{Tie: true}
	}
	leader := poll.Options[best]
	return domain.Leader{Option: &leader}
}

// QuorumStatus applies the assembly rule: a BOOLEAN poll reaches quorum when
// totalVotes >= ceil(maxVoters * 2/3). Other poll types carry no quorum.
func (s *resultsService) QuorumStatus(poll *domain.Poll) domain.Quorum {
	required := (int64(poll.MaxVoters)*2 + 2) / 3
	return domain.Quorum{
		Required: required,
		Reached:  poll.TotalVotes >= required,
	}
}

func (s *resultsService) PercentageOf(option *domain.Option, poll *domain.Poll) int {
	if poll.TotalVotes == 0 {
		return 0
	}
	return int(math.Round(float64(option.Votes) / float64(poll.TotalVotes) * 100))
}

// RankedWords sorts word votes by count descending. The sort is stable over
// the store's insertion order, so the first-seen word wins tie positions.
func (s *resultsService) RankedWords(poll *domain.Poll) []domain.WordVote {
	ranked := make([]domain.WordVote, len(poll.WordVotes))
	copy(ranked, poll.WordVotes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

func (s *resultsService) Summarize(poll *domain.Poll) *domain.PollResults {
	results := &domain.PollResults{
		PollID:     poll.ID,
		Type:       poll.Type,
		TotalVotes: poll.TotalVotes,
		MaxVoters:  poll.MaxVoters,
	}

	switch poll.Type {
	case domain.PollTypeWordCloud:
		results.RankedWords = s.RankedWords(poll)
	default:
		for i := range poll.Options {
			opt := &poll.Options[i]
			results.Options = append(results.Options, domain.OptionStats{
				OptionID:   opt.ID,
				Text:       opt.Text,
				Color:      opt.Color,
				VoteCount:  opt.Votes,
				Percentage: s.PercentageOf(opt, poll),
			})
		}
		leader := s.LeadingOption(poll)
		results.Leader = &leader
		if poll.Type == domain.PollTypeBoolean {
			quorum := s.QuorumStatus(poll)
			results.Quorum = &quorum
		}
	}

	return results
}
