package service

import (
	"context"

	"github.com/agroplaza/identity-api/internal/core/domain"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

// AccountAdminService covers the administrative account operations. The
// lifecycle is soft only: accounts are deactivated, never hard-deleted.
type AccountAdminService struct {
	accounts ports.AccountRepository
}

func NewAccountAdminService(accounts ports.AccountRepository) *AccountAdminService {
	return &AccountAdminService{accounts: accounts}
}

func (s *AccountAdminService) UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus) (*domain.Account, error) {
	if status != domain.StatusActive && status != domain.StatusInactive {
		return nil, domain.ErrRequiredFields
	}
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.UpdateStatus(ctx, account.ID, status); err != nil {
		return nil, err
	}
	account.Status = status
	return account, nil
}
