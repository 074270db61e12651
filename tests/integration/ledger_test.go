package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/bizbooks/ledgercore/internal/adapter/repository/postgres"
	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/usecase"
	"github.com/bizbooks/ledgercore/tests/testutil"
)

func newLedgerUseCase(db *testutil.TestDB) *usecase.LedgerUseCase {
	return usecase.NewLedgerUseCase(
		postgres.NewTxManager(db.Pool),
		postgres.NewAccountRepository(db.Pool),
		postgres.NewEntryRepository(db.Pool),
		postgres.NewULIDGenerator(),
		nil,
	)
}

func TestRecordEntry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	db := testutil.NewTestDB(t)
	defer db.Cleanup()

	ledgerUC := newLedgerUseCase(db)

	t.Run("credit moves the cached balance", func(t *testing.T) {
		db.TruncateAll(ctx)

		account := db.CreateTestAccount(ctx, "checking", domain.AccountKindBank, "100.00")

		entry, err := ledgerUC.RecordEntry(ctx, usecase.RecordEntryInput{
			AccountID:   account.ID,
			Direction:   domain.DirectionCredit,
			Amount:      domain.MustMoney("25.50"),
			Description: "client payment",
		})
		if err != nil {
			t.Fatalf("record entry failed: %v", err)
		}

		if entry.PreviousBalance.String() != "100.00" || entry.CurrentBalance.String() != "125.50" {
			t.Fatalf("unexpected balance snapshots: prev=%s curr=%s",
				entry.PreviousBalance, entry.CurrentBalance)
		}

		balance, err := ledgerUC.GetBalance(ctx, account.ID)
		if err != nil {
			t.Fatalf("get balance failed: %v", err)
		}

		if balance.String() != "125.50" {
			t.Fatalf("expected balance 125.50, got %s", balance)
		}
	})

	t.Run("debit may overdraw", func(t *testing.T) {
		db.TruncateAll(ctx)

		account := db.CreateTestAccount(ctx, "petty cash", domain.AccountKindPettyCash, "10.00")

		_, err := ledgerUC.RecordEntry(ctx, usecase.RecordEntryInput{
			AccountID:   account.ID,
			Direction:   domain.DirectionDebit,
			Amount:      domain.MustMoney("40.00"),
			Description: "stamps",
		})
		if err != nil {
			t.Fatalf("record entry failed: %v", err)
		}

		balance, err := ledgerUC.GetBalance(ctx, account.ID)
		if err != nil {
			t.Fatalf("get balance failed: %v", err)
		}

		if balance.String() != "-30.00" {
			t.Fatalf("expected balance -30.00, got %s", balance)
		}
	})

	t.Run("zero amount is rejected without a trace", func(t *testing.T) {
		db.TruncateAll(ctx)

		account := db.CreateTestAccount(ctx, "checking", domain.AccountKindBank, "100.00")

		_, err := ledgerUC.RecordEntry(ctx, usecase.RecordEntryInput{
			AccountID: account.ID,
			Direction: domain.DirectionCredit,
			Amount:    domain.ZeroMoney(),
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}

		entries, err := ledgerUC.ListEntries(ctx, usecase.ListEntriesInput{AccountID: account.ID})
		if err != nil {
			t.Fatalf("list entries failed: %v", err)
		}

		if len(entries) != 0 {
			t.Fatalf("expected no entries, got %d", len(entries))
		}

		balance, _ := ledgerUC.GetBalance(ctx, account.ID)
		if balance.String() != "100.00" {
			t.Fatalf("expected untouched balance 100.00, got %s", balance)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		db.TruncateAll(ctx)

		_, err := ledgerUC.RecordEntry(ctx, usecase.RecordEntryInput{
			AccountID: testutil.GenerateID(),
			Direction: domain.DirectionCredit,
			Amount:    domain.MustMoney("1.00"),
		})
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})
}

func TestListEntriesOrdering(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	ledgerUC := newLedgerUseCase(db)
	account := db.CreateTestAccount(ctx, "checking", domain.AccountKindBank, "0.00")

	amounts := []string{"1.00", "2.00", "3.00"}
	for _, a := range amounts {
		if _, err := ledgerUC.RecordEntry(ctx, usecase.RecordEntryInput{
			AccountID: account.ID,
			Direction: domain.DirectionCredit,
			Amount:    domain.MustMoney(a),
		}); err != nil {
			t.Fatalf("record entry failed: %v", err)
		}
	}

	entries, err := ledgerUC.ListEntries(ctx, usecase.ListEntriesInput{AccountID: account.ID})
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Newest first.
	for i, want := range []string{"3.00", "2.00", "1.00"} {
		if entries[i].Amount.String() != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, entries[i].Amount)
		}
	}

	// Filter by direction finds nothing on the debit side.
	debit := domain.DirectionDebit
	filtered, err := ledgerUC.ListEntries(ctx, usecase.ListEntriesInput{
		AccountID: account.ID,
		Filter:    usecase.EntryFilter{Direction: &debit},
	})
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}

	if len(filtered) != 0 {
		t.Fatalf("expected no debit entries, got %d", len(filtered))
	}
}
