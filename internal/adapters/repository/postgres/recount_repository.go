package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sufragio/api/internal/core/ports"
)

type recountRepository struct {
	db *sql.DB
}

// NewRecountRepository rebuilds denormalized counters from the ballots
// ledger. The ledger is the ground truth; option votes, word counts and the
// poll total are all derivable from it.
func NewRecountRepository(db *sql.DB) ports.RecountRepository {
	return &recountRepository{
		db: db,
	}
}

func (r *recountRepository) RecountPoll(ctx context.Context, pollID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	optionQuery := `
		UPDATE poll_options po
		SET votes = COALESCE(b.cnt, 0)
		FROM poll_options po2
		LEFT JOIN (
			SELECT option_id, COUNT(*) AS cnt
			FROM ballots
			WHERE poll_id = $1 AND option_id IS NOT NULL
			GROUP BY option_id
		) b ON b.option_id = po2.id
		WHERE po.id = po2.id AND po.poll_id = $1
	`
	if _, err := tx.ExecContext(ctx, optionQuery, pollID); err != nil {
		return fmt.Errorf("failed to recount options: %w", err)
	}

	wordQuery := `
		INSERT INTO word_votes (poll_id, text, count)
		SELECT poll_id, word, COUNT(*)
		FROM ballots
		WHERE poll_id = $1 AND word IS NOT NULL
		GROUP BY poll_id, word
		ON CONFLICT (poll_id, text) DO UPDATE
		SET count = EXCLUDED.count
	`
	if _, err := tx.ExecContext(ctx, wordQuery, pollID); err != nil {
		return fmt.Errorf("failed to recount words: %w", err)
	}

	totalQuery := `
		UPDATE polls
		SET total_votes = (SELECT COUNT(*) FROM ballots WHERE poll_id = $1)
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, totalQuery, pollID); err != nil {
		return fmt.Errorf("failed to recount poll total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
