package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sufragio/api/internal/core/domain"
)

type AdminRepository interface {
	GetByRut(ctx context.Context, rut string) (*domain.Admin, error)
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) error
}

type AdminService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
}
