package ports

import "github.com/sufragio/api/internal/core/domain"

// ResultsService derives presentation data from an already-fetched poll. All
// methods are pure reads; nothing here mutates persisted state.
type ResultsService interface {
	LeadingOption(poll *domain.Poll) domain.Leader
	QuorumStatus(poll *domain.Poll) domain.Quorum
	PercentageOf(option *domain.Option, poll *domain.Poll) int
	RankedWords(poll *domain.Poll) []domain.WordVote
	Summarize(poll *domain.Poll) *domain.PollResults
}
