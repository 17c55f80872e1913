package ledger

import (
	"context"

	"orcamento/internal/core"
)

// CreateAccount validates and persists an account.
func (s *Service) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	created, err := s.store.CreateAccount(ctx, a)
	if err != nil {
		return core.Account{}, core.NewStorageError("create account", err)
	}
	return created, nil
}

// Accounts lists the owner's accounts.
func (s *Service) Accounts(ctx context.Context, ownerID string) ([]core.Account, error) {
	accounts, err := s.store.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, core.NewStorageError("list accounts", err)
	}
	return accounts, nil
}

// Account fetches one account by id.
func (s *Service) Account(ctx context.Context, ownerID, id string) (core.Account, error) {
	account, err := s.store.GetAccount(ctx, ownerID, id)
	if err != nil {
		return core.Account{}, core.NewStorageError("get account", err)
	}
	return account, nil
}

// CreateCategory validates and persists a category.
func (s *Service) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	created, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, core.NewStorageError("create category", err)
	}
	return created, nil
}

// Categories lists the owner's categories.
func (s *Service) Categories(ctx context.Context, ownerID string) ([]core.Category, error) {
	categories, err := s.store.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, core.NewStorageError("list categories", err)
	}
	return categories, nil
}
