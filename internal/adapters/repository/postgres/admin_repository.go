package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sufragio/api/internal/core/domain"
	"github.com/sufragio/api/internal/core/ports"
)

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) ports.AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByRut(ctx context.Context, rut string) (*domain.Admin, error) {
	query := `
		SELECT id, rut, name, password_hash, salt, created_at, deleted_at
		FROM admins
		WHERE rut = $1 AND deleted_at IS NULL
	`
	return r.scanAdmin(r.db.QueryRowContext(ctx, query, rut))
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	query := `
		SELECT id, rut, name, password_hash, salt, created_at, deleted_at
		FROM admins
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.scanAdmin(r.db.QueryRowContext(ctx, query, id))
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	query := `
		INSERT INTO admins (rut, name, password_hash, salt)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, admin.Rut, admin.Name, admin.PasswordHash, admin.Salt).
		Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (r *AdminRepository) scanAdmin(row *sql.Row) (*domain.Admin, error) {
	admin := &domain.Admin{}
	err := row.Scan(
		&admin.ID,
		&admin.Rut,
		&admin.Name,
		&admin.PasswordHash,
		&admin.Salt,
		&admin.CreatedAt,
		&admin.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan admin: %w", err)
	}
	return admin, nil
}
