package domain

import "github.com/google/uuid"

type OptionStats struct {
	OptionID   uuid.UUID `json:"option_id"`
	Text       string    `json:"text"`
	Color      string    `json:"color,omitempty"`
	VoteCount  int64     `json:"vote_count"`
	Percentage int       `json:"percentage"`
}

// Leader is the current winning option of a BOOLEAN/MULTIPLE poll. Tie is set
// when two or more options share the highest count; Option is nil in that
// case and when the poll has no votes.
type Leader struct {
	Option *Option `json:"option,omitempty"`
	Tie    bool    `json:"tie"`
}

type Quorum struct {
	Required int64 `json:"required"`
	Reached  bool  `json:"reached"`
}

// PollResults is the presentation-ready summary recomputed on every fetch.
type PollResults struct {
	PollID      uuid.UUID     `json:"poll_id"`
	Type        PollType      `json:"type"`
	TotalVotes  int64         `json:"total_votes"`
	MaxVoters   int           `json:"max_voters"`
	Options     []OptionStats `json:"options,omitempty"`
	Leader      *Leader       `json:"leader,omitempty"`
	Quorum      *Quorum       `json:"quorum,omitempty"`
	RankedWords []WordVote    `json:"ranked_words,omitempty"`
}
