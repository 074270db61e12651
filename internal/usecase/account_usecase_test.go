package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/usecase"
	"github.com/bizbooks/ledgercore/internal/usecase/mocks"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateAccountInput
		expectError error
		expectKind  domain.AccountKind
	}{
		{
			name: "bank account",
			input: usecase.CreateAccountInput{
				Name:           "Operating Account",
				Kind:           domain.AccountKindBank,
				OpeningBalance: domain.MustMoney("1000.00"),
			},
			expectKind: domain.AccountKindBank,
		},
		{
			name: "petty cash",
			input: usecase.CreateAccountInput{
				Name:           "Office Petty Cash",
				Kind:           domain.AccountKindPettyCash,
				OpeningBalance: domain.MustMoney("200.00"),
			},
			expectKind: domain.AccountKindPettyCash,
		},
		{
			name: "kind defaults to bank",
			input: usecase.CreateAccountInput{
				Name:           "Savings",
				OpeningBalance: domain.ZeroMoney(),
			},
			expectKind: domain.AccountKindBank,
		},
		{
			name: "empty name rejected",
			input: usecase.CreateAccountInput{
				Name: "  ",
			},
			expectError: domain.ErrInvalidAccountName,
		},
		{
			name: "unknown kind rejected",
			input: usecase.CreateAccountInput{
				Name: "Weird",
				Kind: domain.AccountKind("crypto"),
			},
			expectError: domain.ErrInvalidAccountKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accRepo := mocks.NewMockAccountRepository()
			uc := usecase.NewAccountUseCase(accRepo, mocks.NewMockIDGenerator(), nil)

			account, err := uc.CreateAccount(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if account.Kind != tt.expectKind {
				t.Errorf("expected kind %s, got %s", tt.expectKind, account.Kind)
			}

			if !account.Balance.Equal(tt.input.OpeningBalance) {
				t.Errorf("cached balance must start at the opening balance")
			}

			if account.Version != 0 {
				t.Errorf("expected version 0, got %d", account.Version)
			}
		})
	}
}

func TestAccountUseCase_GetAccount(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	accRepo.Create(context.Background(), &domain.Account{ID: "acc-1", Name: "Operating"})

	uc := usecase.NewAccountUseCase(accRepo, nil, nil)

	account, err := uc.GetAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.Name != "Operating" {
		t.Errorf("expected Operating, got %s", account.Name)
	}

	if _, err := uc.GetAccount(context.Background(), "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()

	var gotLimit int
	accRepo.ListFunc = func(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
		gotLimit = limit
		return nil, nil
	}

	uc := usecase.NewAccountUseCase(accRepo, nil, nil)

	if _, err := uc.ListAccounts(context.Background(), usecase.ListAccountsInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotLimit != usecase.DefaultListLimit {
		t.Errorf("expected default limit %d, got %d", usecase.DefaultListLimit, gotLimit)
	}
}
