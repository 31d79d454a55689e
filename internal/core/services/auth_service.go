package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sufragio/api/internal/core/domain"
	"github.com/sufragio/api/internal/core/ports"
)

var ErrInvalidCredentials = errors.New("invalid rut or password")

type AuthService struct {
	adminRepo ports.AdminRepository
	authRepo  ports.AuthRepository
	jwtSecret []byte
}

func NewAuthService(adminRepo ports.AdminRepository, authRepo ports.AuthRepository) *AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Println("Warning: JWT_SECRET not set")
	}

	return &AuthService{
		adminRepo: adminRepo,
		authRepo:  authRepo,
		jwtSecret: []byte(secret),
	}
}

func (s *AuthService) Login(ctx context.Context, rut, password string) (string, string, error) {
	rut = domain.NormalizeRut(rut)
	if err := domain.ValidateRut(rut); err != nil {
		return "", "", err
	}

	admin, err := s.adminRepo.GetByRut(ctx, rut)
	if err != nil {
		return "", "", fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil {
		return "", "", ErrInvalidCredentials
	}

	if !s.passwordMatches(admin, password) {
		return "", "", ErrInvalidCredentials
	}

	accessToken, err := s.generateAccessToken(admin)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rtEntity := &domain.RefreshToken{
		AdminID:   admin.ID,
		TokenHash: s.hashToken(refreshToken),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour), // 7 days
		Revoked:   false,
	}

	if err := s.authRepo.StoreRefreshToken(ctx, rtEntity); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error) {
	tokenHash := s.hashToken(refreshToken)

	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return "", "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return "", "", errors.New("refresh token not found")
	}

	if rtEntity.Revoked {
		return "", "", errors.New("refresh token revoked")
	}
	if rtEntity.ExpiresAt.Before(time.Now()) {
		return "", "", errors.New("refresh token expired")
	}

	admin, err := s.adminRepo.GetByID(ctx, rtEntity.AdminID.String())
	if err != nil {
		return "", "", fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil {
		return "", "", errors.New("admin not found")
	}

	accessToken, err := s.generateAccessToken(admin)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	// Refresh tokens are kept until expiry rather than rotated on each use.
	return accessToken, refreshToken, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := s.hashToken(refreshToken)

	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return nil
	}

	return s.authRepo.RevokeRefreshToken(ctx, rtEntity.ID.String())
}

// HashPassword derives the stored digest for a password and per-admin salt.
// Used by the seeding path when creating administrator accounts.
func HashPassword(password, salt string) string {
	hash := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(hash[:])
}

func (s *AuthService) passwordMatches(admin *domain.Admin, password string) bool {
	computed := HashPassword(password, admin.Salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(admin.PasswordHash)) == 1
}

func (s *AuthService) generateAccessToken(admin *domain.Admin) (string, error) {
	claims := jwt.MapClaims{
		"sub": admin.ID.String(),
		"rut": admin.Rut,
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
