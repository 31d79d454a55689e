package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sufragio/api/internal/core/domain"
	"github.com/sufragio/api/internal/core/ports"
)

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, title, type, status, max_voters, total_votes, hide_results, allow_edit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, queryPoll,
		poll.ID, poll.Title, poll.Type, poll.Status, poll.MaxVoters, poll.TotalVotes,
		poll.Settings.HideResults, poll.Settings.AllowEdit,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	queryOption := `
		INSERT INTO poll_options (id, poll_id, text, color)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, queryOption)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for _, opt := range poll.Options {
		_, err = stmt.ExecContext(ctx, opt.ID, opt.PollID, opt.Text, opt.Color)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	queryPoll := `
		SELECT id, title, type, status, start_time, end_time, max_voters, total_votes,
		       hide_results, allow_edit, created_at
		FROM polls
		WHERE id = $1
	`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, queryPoll, id).Scan(
		&poll.ID, &poll.Title, &poll.Type, &poll.Status, &poll.StartTime, &poll.EndTime,
		&poll.MaxVoters, &poll.TotalVotes, &poll.Settings.HideResults, &poll.Settings.AllowEdit,
		&poll.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if err := r.fetchTally(ctx, &poll); err != nil {
		return nil, err
	}

	return &poll, nil
}

func (r *pollRepository) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	query := `
		SELECT id, title, type, status, start_time, end_time, max_voters, total_votes,
		       hide_results, allow_edit, created_at
		FROM polls
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) List(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	query := `
		SELECT id, title, type, status, start_time, end_time, max_voters, total_votes,
		       hide_results, allow_edit, created_at
		FROM polls
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) Search(ctx context.Context, limit, offset int, q string) ([]*domain.Poll, error) {
	query := `
		SELECT id, title, type, status, start_time, end_time, max_voters, total_votes,
		       hide_results, allow_edit, created_at
		FROM polls
		WHERE title ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, "%"+q+"%", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PollStatus, startTime, endTime *time.Time) error {
	query := `
		UPDATE polls
		SET status = $2, start_time = $3, end_time = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, status, startTime, endTime)
	if err != nil {
		return fmt.Errorf("failed to update poll status: %w", err)
	}
	return checkPollAffected(result)
}

func (r *pollRepository) SetHideResults(ctx context.Context, id uuid.UUID, hide bool) error {
	query := `UPDATE polls SET hide_results = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, hide)
	if err != nil {
		return fmt.Errorf("failed to update hide_results: %w", err)
	}
	return checkPollAffected(result)
}

// Delete removes the poll row; options, word votes and ballots go with it via
// ON DELETE CASCADE.
func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM polls WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	return checkPollAffected(result)
}

func (r *pollRepository) scanPolls(ctx context.Context, rows *sql.Rows) ([]*domain.Poll, error) {
	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(
			&poll.ID, &poll.Title, &poll.Type, &poll.Status, &poll.StartTime, &poll.EndTime,
			&poll.MaxVoters, &poll.TotalVotes, &poll.Settings.HideResults, &poll.Settings.AllowEdit,
			&poll.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}

		if err := r.fetchTally(ctx, &poll); err != nil {
			return nil, err
		}

		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return polls, nil
}

func (r *pollRepository) fetchTally(ctx context.Context, poll *domain.Poll) error {
	if poll.Type == domain.PollTypeWordCloud {
		words, err := r.fetchWordVotes(ctx, poll.ID)
		if err != nil {
			return err
		}
		poll.WordVotes = words
		return nil
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return err
	}
	poll.Options = options
	return nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID uuid.UUID) ([]domain.Option, error) {
	queryOptions := `
		SELECT id, poll_id, text, color, votes, created_at
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, queryOptions, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.Option
	for rows.Next() {
		var opt domain.Option
		var color sql.NullString
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &color, &opt.Votes, &opt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		opt.Color = color.String
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}

// fetchWordVotes returns rows in insertion order (the seq column), which the
// aggregator relies on for reproducible tie-breaking.
func (r *pollRepository) fetchWordVotes(ctx context.Context, pollID uuid.UUID) ([]domain.WordVote, error) {
	query := `
		SELECT poll_id, text, count, created_at
		FROM word_votes
		WHERE poll_id = $1
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get word votes: %w", err)
	}
	defer rows.Close()

	var words []domain.WordVote
	for rows.Next() {
		var wv domain.WordVote
		if err := rows.Scan(&wv.PollID, &wv.Text, &wv.Count, &wv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan word vote: %w", err)
		}
		words = append(words, wv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating word votes: %w", err)
	}
	return words, nil
}

func checkPollAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}
