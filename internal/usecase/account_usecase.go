package usecase

import (
	"context"
	"time"

	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/infrastructure/metrics"
)

// AccountUseCase handles account provisioning. Petty cash is an ordinary
// account with Kind set; there is no singleton petty-cash logic anywhere.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase. metrics may be nil.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator, m *metrics.Metrics) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name           string
	Kind           domain.AccountKind
	OpeningBalance domain.Money
}

// CreateAccount creates a new account. The opening balance is fixed at
// creation and the cached balance starts equal to it.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if input.Kind == "" {
		input.Kind = domain.AccountKindBank
	}

	if !input.Kind.Valid() {
		return nil, domain.ErrInvalidAccountKind
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Name:           input.Name,
		Kind:           input.Kind,
		OpeningBalance: input.OpeningBalance,
		Balance:        input.OpeningBalance,
		Version:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()

		balance, _ := account.Balance.Decimal().Float64()
		uc.metrics.AccountBalance.WithLabelValues(account.ID, string(account.Kind)).Set(balance)
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx, clampLimit(input.Limit), input.Offset)
}
