package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sufragio/api/internal/core/domain"
)

// in-memory repositories backing the service unit tests

type fakePollRepo struct {
	polls map[uuid.UUID]*domain.Poll
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{polls: make(map[uuid.UUID]*domain.Poll)}
}

func (r *fakePollRepo) Save(_ context.Context, poll *domain.Poll) error {
	cp := *poll
	r.polls[poll.ID] = &cp
	return nil
}

func (r *fakePollRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	poll, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	cp := *poll
	return &cp, nil
}

func (r *fakePollRepo) GetAll(_ context.Context) ([]*domain.Poll, error) {
	var out []*domain.Poll
	for _, p := range r.polls {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePollRepo) List(_ context.Context, limit, offset int) ([]*domain.Poll, error) {
	return r.GetAll(context.Background())
}

func (r *fakePollRepo) Search(_ context.Context, limit, offset int, query string) ([]*domain.Poll, error) {
	var out []*domain.Poll
	for _, p := range r.polls {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePollRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.PollStatus, startTime, endTime *time.Time) error {
	poll, ok := r.polls[id]
	if !ok {
		return domain.ErrPollNotFound
	}
	poll.Status = status
	poll.StartTime = startTime
	poll.EndTime = endTime
	return nil
}

func (r *fakePollRepo) SetHideResults(_ context.Context, id uuid.UUID, hide bool) error {
	poll, ok := r.polls[id]
	if !ok {
		return domain.ErrPollNotFound
	}
	poll.Settings.HideResults = hide
	return nil
}

func (r *fakePollRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(r.polls, id)
	return nil
}

type fakeVoteRepo struct {
	pollRepo *fakePollRepo
	ballots  map[string]*domain.Ballot
}

func newFakeVoteRepo(pollRepo *fakePollRepo) *fakeVoteRepo {
	return &fakeVoteRepo{
		pollRepo: pollRepo,
		ballots:  make(map[string]*domain.Ballot),
	}
}

func ballotKey(pollID uuid.UUID, voterID string) string {
	return pollID.String() + "/" + voterID
}

func (r *fakeVoteRepo) RecordOptionVote(_ context.Context, ballot *domain.Ballot) error {
	key := ballotKey(ballot.PollID, ballot.VoterID)
	if _, ok := r.ballots[key]; ok {
		return domain.ErrAlreadyVoted
	}
	poll := r.pollRepo.polls[ballot.PollID]
	for i := range poll.Options {
		if poll.Options[i].ID == *ballot.OptionID {
			poll.Options[i].Votes++
			poll.TotalVotes++
			r.ballots[key] = ballot
			return nil
		}
	}
	return domain.ErrInvalidOption
}

func (r *fakeVoteRepo) RecordWordVote(_ context.Context, ballot *domain.Ballot) error {
	key := ballotKey(ballot.PollID, ballot.VoterID)
	if _, ok := r.ballots[key]; ok {
		return domain.ErrAlreadyVoted
	}
	poll := r.pollRepo.polls[ballot.PollID]
	r.bumpWord(poll, ballot.Word)
	poll.TotalVotes++
	r.ballots[key] = ballot
	return nil
}

func (r *fakeVoteRepo) ReplaceOptionVote(_ context.Context, ballot *domain.Ballot) error {
	key := ballotKey(ballot.PollID, ballot.VoterID)
	prev := r.ballots[key]
	poll := r.pollRepo.polls[ballot.PollID]
	for i := range poll.Options {
		if prev.OptionID != nil && poll.Options[i].ID == *prev.OptionID {
			poll.Options[i].Votes--
		}
		if poll.Options[i].ID == *ballot.OptionID {
			poll.Options[i].Votes++
		}
	}
	r.ballots[key] = ballot
	return nil
}

func (r *fakeVoteRepo) ReplaceWordVote(_ context.Context, ballot *domain.Ballot) error {
	key := ballotKey(ballot.PollID, ballot.VoterID)
	prev := r.ballots[key]
	poll := r.pollRepo.polls[ballot.PollID]
	for i := range poll.WordVotes {
		if poll.WordVotes[i].Text == prev.Word && poll.WordVotes[i].Count > 0 {
			poll.WordVotes[i].Count--
		}
	}
	r.bumpWord(poll, ballot.Word)
	r.ballots[key] = ballot
	return nil
}

func (r *fakeVoteRepo) GetBallot(_ context.Context, pollID uuid.UUID, voterID string) (*domain.Ballot, error) {
	ballot, ok := r.ballots[ballotKey(pollID, voterID)]
	if !ok {
		return nil, nil
	}
	return ballot, nil
}

func (r *fakeVoteRepo) bumpWord(poll *domain.Poll, word string) {
	for i := range poll.WordVotes {
		if poll.WordVotes[i].Text == word {
			poll.WordVotes[i].Count++
			return
		}
	}
	poll.WordVotes = append(poll.WordVotes, domain.WordVote{
		PollID:    poll.ID,
		Text:      word,
		Count:     1,
		CreatedAt: time.Now(),
	})
}
