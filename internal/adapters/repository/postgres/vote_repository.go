package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sufragio/api/internal/core/domain"
	"github.com/sufragio/api/internal/core/ports"
)

const pqUniqueViolation = "23505"

type voteRepository struct {
	db *sql.DB
}

// NewVoteRepository persists votes. Every write path runs in one transaction
// and uses database-native atomic updates (votes = votes + 1, upsert with
// count = count + 1), so concurrent votes on the same option or word are both
// reflected and total_votes always equals the counter sum.
func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) RecordOptionVote(ctx context.Context, ballot *domain.Ballot) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.insertBallot(ctx, tx, ballot); err != nil {
			return err
		}

		var votes int64
		query := `
			UPDATE poll_options
			SET votes = votes + 1
			WHERE id = $1 AND poll_id = $2
			RETURNING votes
		`
		err := tx.QueryRowContext(ctx, query, ballot.OptionID, ballot.PollID).Scan(&votes)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrInvalidOption
			}
			return fmt.Errorf("failed to increment option votes: %w", err)
		}

		return r.incrementTotal(ctx, tx, ballot.PollID, 1)
	})
}

func (r *voteRepository) RecordWordVote(ctx context.Context, ballot *domain.Ballot) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.insertBallot(ctx, tx, ballot); err != nil {
			return err
		}

		if err := r.upsertWord(ctx, tx, ballot.PollID, ballot.Word); err != nil {
			return err
		}

		return r.incrementTotal(ctx, tx, ballot.PollID, 1)
	})
}

func (r *voteRepository) ReplaceOptionVote(ctx context.Context, ballot *domain.Ballot) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		prev, err := r.takeBallot(ctx, tx, ballot)
		if err != nil {
			return err
		}

		if prev.OptionID != nil {
			decrement := `
				UPDATE poll_options
				SET votes = votes - 1
				WHERE id = $1 AND poll_id = $2 AND votes > 0
			`
			if _, err := tx.ExecContext(ctx, decrement, prev.OptionID, ballot.PollID); err != nil {
				return fmt.Errorf("failed to decrement previous option: %w", err)
			}
		}

		var votes int64
		increment := `
			UPDATE poll_options
			SET votes = votes + 1
			WHERE id = $1 AND poll_id = $2
			RETURNING votes
		`
		err = tx.QueryRowContext(ctx, increment, ballot.OptionID, ballot.PollID).Scan(&votes)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrInvalidOption
			}
			return fmt.Errorf("failed to increment option votes: %w", err)
		}

		// total unchanged: one ballot moved between options
		return nil
	})
}

func (r *voteRepository) ReplaceWordVote(ctx context.Context, ballot *domain.Ballot) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		prev, err := r.takeBallot(ctx, tx, ballot)
		if err != nil {
			return err
		}

		if prev.Word != "" {
			decrement := `
				UPDATE word_votes
				SET count = count - 1
				WHERE poll_id = $1 AND text = $2 AND count > 0
			`
			if _, err := tx.ExecContext(ctx, decrement, ballot.PollID, prev.Word); err != nil {
				return fmt.Errorf("failed to decrement previous word: %w", err)
			}
		}

		return r.upsertWord(ctx, tx, ballot.PollID, ballot.Word)
	})
}

func (r *voteRepository) GetBallot(ctx context.Context, pollID uuid.UUID, voterID string) (*domain.Ballot, error) {
	query := `
		SELECT id, poll_id, option_id, word, voter_id, voter_ip, created_at
		FROM ballots
		WHERE poll_id = $1 AND voter_id = $2
	`
	ballot := &domain.Ballot{}
	var word, voterIP sql.NullString
	err := r.db.QueryRowContext(ctx, query, pollID, voterID).Scan(
		&ballot.ID, &ballot.PollID, &ballot.OptionID, &word, &ballot.VoterID,
		&voterIP, &ballot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ballot: %w", err)
	}
	ballot.Word = word.String
	ballot.VoterIP = voterIP.String
	return ballot, nil
}

func (r *voteRepository) insertBallot(ctx context.Context, tx *sql.Tx, ballot *domain.Ballot) error {
	query := `
		INSERT INTO ballots (id, poll_id, option_id, word, voter_id, voter_ip)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		ballot.ID, ballot.PollID, ballot.OptionID, ballot.Word, ballot.VoterID, ballot.VoterIP,
	)
	if err != nil {
		// the unique (poll_id, voter_id) index closes the check-then-insert
		// race between two submissions from the same voter
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert ballot: %w", err)
	}
	return nil
}

// takeBallot loads the voter's current ballot for update and repoints it at
// the new choice.
func (r *voteRepository) takeBallot(ctx context.Context, tx *sql.Tx, ballot *domain.Ballot) (*domain.Ballot, error) {
	query := `
		SELECT id, option_id, word
		FROM ballots
		WHERE poll_id = $1 AND voter_id = $2
		FOR UPDATE
	`
	prev := &domain.Ballot{}
	var word sql.NullString
	err := tx.QueryRowContext(ctx, query, ballot.PollID, ballot.VoterID).Scan(&prev.ID, &prev.OptionID, &word)
	if err != nil {
		return nil, fmt.Errorf("failed to lock ballot: %w", err)
	}
	prev.Word = word.String

	update := `
		UPDATE ballots
		SET option_id = $2, word = NULLIF($3, ''), created_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update, prev.ID, ballot.OptionID, ballot.Word); err != nil {
		return nil, fmt.Errorf("failed to update ballot: %w", err)
	}
	return prev, nil
}

func (r *voteRepository) upsertWord(ctx context.Context, tx *sql.Tx, pollID uuid.UUID, word string) error {
	var count int64
	query := `
		INSERT INTO word_votes (poll_id, text, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (poll_id, text) DO UPDATE
		SET count = word_votes.count + 1
		RETURNING count
	`
	if err := tx.QueryRowContext(ctx, query, pollID, word).Scan(&count); err != nil {
		return fmt.Errorf("failed to upsert word vote: %w", err)
	}
	return nil
}

func (r *voteRepository) incrementTotal(ctx context.Context, tx *sql.Tx, pollID uuid.UUID, delta int64) error {
	var total int64
	query := `
		UPDATE polls
		SET total_votes = total_votes + $2
		WHERE id = $1
		RETURNING total_votes
	`
	err := tx.QueryRowContext(ctx, query, pollID, delta).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrPollNotFound
		}
		return fmt.Errorf("failed to increment poll total: %w", err)
	}
	return nil
}

func (r *voteRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
