package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ballot records that a voter identity cast a vote on a poll. The unique
// (poll, voter) pair backs server-side duplicate detection; OptionID or Word
// records what was chosen so an edit can undo the previous counter.
type Ballot struct {
	ID        uuid.UUID  `json:"id"`
	PollID    uuid.UUID  `json:"poll_id"`
	OptionID  *uuid.UUID `json:"option_id,omitempty"`
	Word      string     `json:"word,omitempty"`
	VoterID   string     `json:"voter_id"`
	VoterIP   string     `json:"voter_ip"`
	CreatedAt time.Time  `json:"created_at"`
}
