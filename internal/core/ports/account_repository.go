package ports

import (
	"context"

	"github.com/agroplaza/identity-api/internal/core/domain"
)

// AccountRepository defines the interface for account persistence. Uniqueness
// violations on username, email, or phone must surface as the matching
// domain conflict error.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Account, error)
	// FindByUsernameOrEmail resolves the single identifier accepted by the
	// recovery and reset flows.
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.Account, error)
	UpdatePhone(ctx context.Context, id, phone string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error
}
