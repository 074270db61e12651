package memory

import (
	"context"
	"sort"
	"time"

	"github.com/bizbooks/ledgercore/internal/domain"
	"github.com/bizbooks/ledgercore/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store

	// CreateHook, when set, runs before an entry is staged and can veto
	// it. Tests use it to fail one leg of a transfer mid-transaction.
	CreateHook func(entry *domain.Entry) error
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create stages an entry to append on commit.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if r.CreateHook != nil {
		if err := r.CreateHook(entry); err != nil {
			return err
		}
	}

	memTx := tx.(*Tx)
	cp := *entry

	memTx.stage(func() {
		r.store.entries = append(r.store.entries, &cp)
	})

	return nil
}

// ListByAccount lists an account's entries, most recent first. Ordering is
// occurred_at desc, recorded_at desc, id desc, matching the postgres engine.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var entries []*domain.Entry

	for _, entry := range r.store.entries {
		if entry.AccountID != accountID || !matchesFilter(entry, filter) {
			continue
		}

		cp := *entry
		entries = append(entries, &cp)
	}

	sortEntries(entries)

	return paginate(entries, filter.Limit, filter.Offset), nil
}

// GetByTransfer returns the entries created by one transfer.
func (r *EntryRepository) GetByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var entries []*domain.Entry

	for _, entry := range r.store.entries {
		if entry.TransferID == nil || *entry.TransferID != transferID {
			continue
		}

		cp := *entry
		entries = append(entries, &cp)
	}

	sortEntries(entries)

	return entries, nil
}

// SumByAccount returns the signed sum of an account's entries.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountID string) (domain.Money, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sum := domain.ZeroMoney()

	for _, entry := range r.store.entries {
		if entry.AccountID == accountID {
			sum = sum.Add(entry.Signed())
		}
	}

	return sum, nil
}

// AgeBuckets groups an account's signed entry amounts into age buckets by
// occurred_at relative to asOf.
func (r *EntryRepository) AgeBuckets(ctx context.Context, accountID string, asOf time.Time) (*usecase.AgingReport, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	report := &usecase.AgingReport{
		AccountID:  accountID,
		AsOf:       asOf,
		Current:    domain.ZeroMoney(),
		ThirtyOne:  domain.ZeroMoney(),
		SixtyOne:   domain.ZeroMoney(),
		OverNinety: domain.ZeroMoney(),
	}

	for _, entry := range r.store.entries {
		if entry.AccountID != accountID || entry.OccurredAt.After(asOf) {
			continue
		}

		age := int(asOf.Sub(entry.OccurredAt).Hours() / 24)
		amount := entry.Signed()

		switch {
		case age <= 30:
			report.Current = report.Current.Add(amount)
		case age <= 60:
			report.ThirtyOne = report.ThirtyOne.Add(amount)
		case age <= 90:
			report.SixtyOne = report.SixtyOne.Add(amount)
		default:
			report.OverNinety = report.OverNinety.Add(amount)
		}
	}

	return report, nil
}

func matchesFilter(entry *domain.Entry, filter usecase.EntryFilter) bool {
	if filter.From != nil && entry.OccurredAt.Before(*filter.From) {
		return false
	}

	if filter.To != nil && entry.OccurredAt.After(*filter.To) {
		return false
	}

	if filter.Direction != nil && entry.Direction != *filter.Direction {
		return false
	}

	if filter.ProjectID != "" && entry.ProjectID != filter.ProjectID {
		return false
	}

	return true
}

func sortEntries(entries []*domain.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].OccurredAt.Equal(entries[j].OccurredAt) {
			return entries[i].OccurredAt.After(entries[j].OccurredAt)
		}

		if !entries[i].RecordedAt.Equal(entries[j].RecordedAt) {
			return entries[i].RecordedAt.After(entries[j].RecordedAt)
		}

		return entries[i].ID > entries[j].ID
	})
}
