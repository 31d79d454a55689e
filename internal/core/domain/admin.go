package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Admin struct {
	ID           uuid.UUID  `json:"id"`
	Rut          string     `json:"rut"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Salt         string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	AdminID   uuid.UUID `json:"admin_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeRut strips dots and the hyphen from a Chilean RUT and upper-cases
// the check digit, so "12.345.678-k" and "12345678K" compare equal.
func NormalizeRut(rut string) string {
	rut = strings.ReplaceAll(rut, ".", "")
	rut = strings.ReplaceAll(rut, "-", "")
	return strings.ToUpper(strings.TrimSpace(rut))
}

// ValidateRut checks the mod-11 check digit of a normalized RUT.
func ValidateRut(rut string) error {
	rut = NormalizeRut(rut)
	if len(rut) < 2 {
		return fmt.Errorf("%w: rut too short", ErrValidation)
	}

	body, check := rut[:len(rut)-1], rut[len(rut)-1]
	sum, factor := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		if body[i] < '0' || body[i] > '9' {
			return fmt.Errorf("%w: rut contains non-digit characters", ErrValidation)
		}
		sum += int(body[i]-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}

	var expected byte
	switch rest := 11 - (sum % 11); rest {
	case 11:
		expected = '0'
	case 10:
		expected = 'K'
	default:
		expected = byte('0' + rest)
	}

	if check != expected {
		return fmt.Errorf("%w: rut check digit mismatch", ErrValidation)
	}
	return nil
}
