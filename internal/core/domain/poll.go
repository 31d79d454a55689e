package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PollType string

const (
	PollTypeBoolean   PollType = "BOOLEAN"
	PollTypeMultiple  PollType = "MULTIPLE"
	PollTypeWordCloud PollType = "WORDCLOUD"
)

type PollStatus string

const (
	PollStatusDraft  PollStatus = "DRAFT"
	PollStatusActive PollStatus = "ACTIVE"
	PollStatusClosed PollStatus = "CLOSED"
)

type PollSettings struct {
	HideResults bool `json:"hide_results"`
	AllowEdit   bool `json:"allow_edit"`
}

type Poll struct {
	ID         uuid.UUID    `json:"id"`
	Title      string       `json:"title"`
	Type       PollType     `json:"type"`
	Status     PollStatus   `json:"status"`
	StartTime  *time.Time   `json:"start_time,omitempty"`
	EndTime    *time.Time   `json:"end_time,omitempty"`
	MaxVoters  int          `json:"max_voters"`
	TotalVotes int64        `json:"total_votes"`
	Settings   PollSettings `json:"settings"`
	Options    []Option     `json:"options,omitempty"`
	WordVotes  []WordVote   `json:"word_votes,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

type Option struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	Text      string    `json:"text"`
	Color     string    `json:"color,omitempty"`
	Votes     int64     `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

// WordVote is one normalized free-text submission and its occurrence count.
// Rows are created lazily on the first occurrence of a word within a poll.
type WordVote struct {
	PollID    uuid.UUID `json:"poll_id"`
	Text      string    `json:"text"`
	Count     int64     `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

// BooleanOptionSeeds are the three fixed options every BOOLEAN poll is
// created with. They are immutable after creation.
var BooleanOptionSeeds = []struct {
	Text  string
	Color string
}{
	{Text: "A favor", Color: "#2EB67D"},
	{Text: "En contra", Color: "#C22359"},
	{Text: "Abstención", Color: "#FFC100"},
}

// AcceptsVotes reports whether a vote submitted at now is eligible. Expiry is
// derived here at read time; status is never flipped by a background process.
func (p *Poll) AcceptsVotes(now time.Time) bool {
	if p.Status != PollStatusActive {
		return false
	}
	return p.EndTime == nil || now.Before(*p.EndTime)
}

func (p *Poll) HasOption(optionID uuid.UUID) bool {
	for _, opt := range p.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// NormalizeWord folds a free-text submission for word-cloud tallying:
// surrounding whitespace is trimmed and the word is lower-cased, so
// "Salud", "salud" and " salud " all count against the same row.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
