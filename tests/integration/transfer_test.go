package integration

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/bizbooks/ledgercore/internal/adapter/repository/postgres"
	redisrepo "github.com/bizbooks/ledgercore/internal/adapter/repository/redis"
	"github.com/bizbooks/ledgercore/internal/domain"
	infraredis "github.com/bizbooks/ledgercore/internal/infrastructure/redis"
	"github.com/bizbooks/ledgercore/internal/usecase"
	"github.com/bizbooks/ledgercore/tests/testutil"
)

func newTransferUseCase(db *testutil.TestDB, idemStore usecase.IdempotencyStore) *usecase.TransferUseCase {
	return usecase.NewTransferUseCase(
		postgres.NewTxManager(db.Pool),
		postgres.NewAccountRepository(db.Pool),
		postgres.NewTransferRepository(db.Pool),
		postgres.NewEntryRepository(db.Pool),
		postgres.NewULIDGenerator(),
		idemStore,
		nil,
	)
}

func TestTransfer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	db := testutil.NewTestDB(t)
	defer db.Cleanup()

	ledgerUC := newLedgerUseCase(db)
	transferUC := newTransferUseCase(db, nil)

	t.Run("two-leg transfer moves money atomically", func(t *testing.T) {
		db.TruncateAll(ctx)

		source := db.CreateTestAccount(ctx, "checking", domain.AccountKindBank, "500.00")
		dest := db.CreateTestAccount(ctx, "petty cash", domain.AccountKindPettyCash, "0.00")

		transfer, err := transferUC.CreateTransfer(ctx, usecase.CreateTransferInput{
			SourceAccountID: &source.ID,
			DestAccountID:   dest.ID,
			Amount:          domain.MustMoney("200.00"),
			Description:     "cash top-up",
		})
		if err != nil {
			t.Fatalf("create transfer failed: %v", err)
		}

		sourceBalance, _ := ledgerUC.GetBalance(ctx, source.ID)
		destBalance, _ := ledgerUC.GetBalance(ctx, dest.ID)

		if sourceBalance.String() != "300.00" || destBalance.String() != "200.00" {
			t.Fatalf("unexpected balances: source=%s dest=%s", sourceBalance, destBalance)
		}

		entries, err := postgres.NewEntryRepository(db.Pool).GetByTransfer(ctx, transfer.ID)
		if err != nil {
			t.Fatalf("get entries failed: %v", err)
		}

		if len(entries) != 2 {
			t.Fatalf("expected exactly 2 entries, got %d", len(entries))
		}

		for _, e := range entries {
			if e.TransferID == nil || *e.TransferID != transfer.ID {
				t.Fatalf("entry %s not linked to transfer", e.ID)
			}
			if e.CounterpartyAccountID == nil {
				t.Fatalf("entry %s missing counterparty", e.ID)
			}
		}
	})

	t.Run("single-leg transfer defaults to credit", func(t *testing.T) {
		db.TruncateAll(ctx)

		dest := db.CreateTestAccount(ctx, "checking", domain.AccountKindBank, "0.00")

		if _, err := transferUC.CreateTransfer(ctx, usecase.CreateTransferInput{
			DestAccountID: dest.ID,
			Amount:        domain.MustMoney("75.00"),
			Description:   "deposit",
		}); err != nil {
			t.Fatalf("create transfer failed: %v", err)
		}

		balance, _ := ledgerUC.GetBalance(ctx, dest.ID)
		if balance.String() != "75.00" {
			t.Fatalf("expected balance 75.00, got %s", balance)
		}
	})

	t.Run("same account is rejected", func(t *testing.T) {
		db.TruncateAll(ctx)

		account := db.CreateTestAccount(ctx, "checking", domain.AccountKindBank, "100.00")

		_, err := transferUC.CreateTransfer(ctx, usecase.CreateTransferInput{
			SourceAccountID: &account.ID,
			DestAccountID:   account.ID,
			Amount:          domain.MustMoney("10.00"),
		})
		if !errors.Is(err, domain.ErrSameAccount) {
			t.Fatalf("expected ErrSameAccount, got %v", err)
		}
	})

	t.Run("missing destination leaves source untouched", func(t *testing.T) {
		db.TruncateAll(ctx)

		source := db.CreateTestAccount(ctx, "checking", domain.AccountKindBank, "100.00")

		_, err := transferUC.CreateTransfer(ctx, usecase.CreateTransferInput{
			SourceAccountID: &source.ID,
			DestAccountID:   testutil.GenerateID(),
			Amount:          domain.MustMoney("10.00"),
		})
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}

		balance, _ := ledgerUC.GetBalance(ctx, source.ID)
		if balance.String() != "100.00" {
			t.Fatalf("expected untouched balance 100.00, got %s", balance)
		}
	})
}

func TestTransferIdempotency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer redisClient.Close()

	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	ledgerUC := newLedgerUseCase(db)
	transferUC := newTransferUseCase(db, redisrepo.NewIdempotencyStore(redisClient))

	source := db.CreateTestAccount(ctx, "checking", domain.AccountKindBank, "500.00")
	dest := db.CreateTestAccount(ctx, "savings", domain.AccountKindBank, "0.00")

	input := usecase.CreateTransferInput{
		SourceAccountID: &source.ID,
		DestAccountID:   dest.ID,
		Amount:          domain.MustMoney("100.00"),
		IdempotencyKey:  testutil.GenerateID(),
	}

	first, err := transferUC.CreateTransfer(ctx, input)
	if err != nil {
		t.Fatalf("first transfer failed: %v", err)
	}

	second, err := transferUC.CreateTransfer(ctx, input)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected replay to return transfer %s, got %s", first.ID, second.ID)
	}

	sourceBalance, _ := ledgerUC.GetBalance(ctx, source.ID)
	if sourceBalance.String() != "400.00" {
		t.Fatalf("expected money to move once, source balance %s", sourceBalance)
	}
}
