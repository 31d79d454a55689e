package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sufragio/api/internal/core/domain"
	"github.com/sufragio/api/internal/core/ports"
)

type adminService struct {
	repo ports.AdminRepository
}

func NewAdminService(repo ports.AdminRepository) ports.AdminService {
	return &adminService{
		repo: repo,
	}
}

func (s *adminService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	return s.repo.GetByID(ctx, id.String())
}
