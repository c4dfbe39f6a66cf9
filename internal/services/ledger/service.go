// Package ledger implements the reactive cache and mutation controller for
// the debt, account and investment collections.
//
// Each collection moves through Idle → Fetching → Fresh → Stale → Fetching.
// Reads serve cached data while Fresh and hit the store otherwise.
// Mutations patch the cached collection optimistically before the store
// confirms, so callers get read-your-writes immediately; the confirmed
// record then replaces the patch unless a newer mutation for the same
// entity already landed, in which case the late response is discarded.
// Failed mutations are surfaced but the optimistic patch is not rolled
// back; the caller resynchronizes with Refresh.
//
// Aggregates (financial summary, net worth) are never cached here: they
// are pure reductions recomputed from whatever the cache currently holds,
// so a Stale mark on a dependency is all the invalidation they need.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/interfaces"
	"github.com/bobmcallan/tally/internal/models"
)

// staleDependents maps a mutated collection to the collections it
// invalidates. A repayment touches both the debt and the crediting
// account's balance, and an account edit can change how debts were
// settled, so debts and accounts invalidate each other. Investments are
// unrelated to either.
var staleDependents = map[models.Collection][]models.Collection{
	models.CollectionDebts:       {models.CollectionAccounts},
	models.CollectionAccounts:    {models.CollectionDebts},
	models.CollectionInvestments: {},
}

// Service implements interfaces.LedgerService.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger

	// stateMu guards the collection states only. It is always acquired
	// after (or without) a collection monitor, never the other way
	// around, so cross-collection invalidation cannot deadlock.
	stateMu sync.Mutex
	states  map[models.Collection]models.CollectionState

	// One monitor per collection: mutations to the same collection
	// serialize their cache patches, mutations to different collections
	// proceed in parallel. Store calls are made outside the monitor.
	debtsMu  sync.Mutex
	debts    map[string]models.Debt
	debtSeq  *seqTracker
	accMu    sync.Mutex
	accounts map[string]models.Account
	accSeq   *seqTracker
	invMu    sync.Mutex
	invs     map[string]models.Investment
	invSeq   *seqTracker
}

// NewService creates a new ledger service over the given store.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		states: map[models.Collection]models.CollectionState{
			models.CollectionDebts:       models.CollectionIdle,
			models.CollectionAccounts:    models.CollectionIdle,
			models.CollectionInvestments: models.CollectionIdle,
		},
		debts:    make(map[string]models.Debt),
		debtSeq:  newSeqTracker(),
		accounts: make(map[string]models.Account),
		accSeq:   newSeqTracker(),
		invs:     make(map[string]models.Investment),
		invSeq:   newSeqTracker(),
	}
}

// State reports the cache state of a collection.
func (s *Service) State(collection models.Collection) models.CollectionState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.states[collection]
}

// Invalidate marks a collection stale so the next read refetches.
func (s *Service) Invalidate(collection models.Collection) {
	s.markStale(collection)
}

// Refresh forces a refetch of a collection from the store. It is the
// resynchronization point after a failed mutation.
func (s *Service) Refresh(ctx context.Context, collection models.Collection) error {
	s.markStale(collection)
	var err error
	switch collection {
	case models.CollectionDebts:
		_, err = s.Debts(ctx)
	case models.CollectionAccounts:
		_, err = s.Accounts(ctx)
	case models.CollectionInvestments:
		_, err = s.Investments(ctx)
	default:
		err = fmt.Errorf("unknown collection %q", collection)
	}
	return err
}

func (s *Service) setState(collection models.Collection, state models.CollectionState) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.states[collection] = state
}

// finishFetch marks a collection Fresh unless an invalidation landed
// while the fetch was in flight, in which case it stays Stale.
func (s *Service) finishFetch(collection models.Collection) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.states[collection] == models.CollectionFetching {
		s.states[collection] = models.CollectionFresh
	}
}

// markStale invalidates a collection unless it was never fetched.
func (s *Service) markStale(collection models.Collection) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.states[collection] != models.CollectionIdle {
		s.states[collection] = models.CollectionStale
	}
}

// markDependentsStale applies the cross-collection invalidation table.
func (s *Service) markDependentsStale(collection models.Collection) {
	for _, dep := range staleDependents[collection] {
		s.markStale(dep)
	}
}

func (s *Service) needsFetch(collection models.Collection) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	state := s.states[collection]
	return state == models.CollectionIdle || state == models.CollectionStale
}

// --- Debts ---

// Debts returns the debt collection, fetching from the store only when
// the cache is idle or stale. The returned slice is a copy.
func (s *Service) Debts(ctx context.Context) ([]models.Debt, error) {
	s.debtsMu.Lock()
	defer s.debtsMu.Unlock()

	if s.needsFetch(models.CollectionDebts) {
		s.setState(models.CollectionDebts, models.CollectionFetching)
		stored, err := s.storage.DebtStore().ListDebts(ctx)
		if err != nil {
			s.markStale(models.CollectionDebts)
			return nil, fmt.Errorf("failed to fetch debts: %w", err)
		}
		s.debts = make(map[string]models.Debt, len(stored))
		for _, d := range stored {
			s.debts[d.ID] = *d
		}
		s.finishFetch(models.CollectionDebts)
		s.logger.Debug().Int("count", len(stored)).Msg("Debt collection fetched")
	}

	debts := make([]models.Debt, 0, len(s.debts))
	for _, d := range s.debts {
		debts = append(debts, d)
	}
	sort.Slice(debts, func(i, j int) bool {
		if !debts[i].LentDate.Equal(debts[j].LentDate) {
			return debts[i].LentDate.Before(debts[j].LentDate)
		}
		return debts[i].ID < debts[j].ID
	})
	return debts, nil
}

// Debt returns a single debt from the cached collection.
func (s *Service) Debt(ctx context.Context, id string) (*models.Debt, error) {
	debts, err := s.Debts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range debts {
		if debts[i].ID == id {
			return &debts[i], nil
		}
	}
	return nil, fmt.Errorf("debt %s: %w", id, models.ErrNotFound)
}

// CreateDebt validates and stores a new debt. The record is visible to
// readers immediately, before the store confirms.
func (s *Service) CreateDebt(ctx context.Context, debt *models.Debt) (*models.Debt, error) {
	record := *debt
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.RecordedStatus == "" {
		record.RecordedStatus = models.DebtStatusActive
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	if err := record.Validate(); err != nil {
		return nil, err
	}

	seq := s.patchDebt(record)

	saved, err := s.storage.DebtStore().SaveDebt(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%w: create debt: %w", models.ErrMutationFailed, err)
	}
	s.confirmDebt(*saved, seq)
	s.logger.Info().Str("id", saved.ID).Str("borrower", saved.BorrowerName).Msg("Debt created")
	return saved, nil
}

// UpdateDebt replaces a debt record.
func (s *Service) UpdateDebt(ctx context.Context, debt *models.Debt) (*models.Debt, error) {
	if err := debt.Validate(); err != nil {
		return nil, err
	}
	record := *debt
	record.UpdatedAt = time.Now()

	seq := s.patchDebt(record)

	saved, err := s.storage.DebtStore().SaveDebt(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%w: update debt %s: %w", models.ErrMutationFailed, record.ID, err)
	}
	s.confirmDebt(*saved, seq)
	return saved, nil
}

// DeleteDebt removes a debt and, by ownership, its repayment ledger.
func (s *Service) DeleteDebt(ctx context.Context, id string) error {
	s.debtsMu.Lock()
	delete(s.debts, id)
	s.debtSeq.next(id)
	s.debtsMu.Unlock()
	s.markDependentsStale(models.CollectionDebts)

	if err := s.storage.DebtStore().DeleteDebt(ctx, id); err != nil {
		return fmt.Errorf("%w: delete debt %s: %w", models.ErrMutationFailed, id, err)
	}
	return nil
}

// AddRepayment appends a repayment to a debt's ledger. The repayment is
// visible on the cached debt immediately; the crediting account's balance
// lives in the accounts collection, which is marked stale.
func (s *Service) AddRepayment(ctx context.Context, debtID string, repayment *models.Repayment) (*models.Debt, error) {
	if err := repayment.Validate(); err != nil {
		return nil, err
	}

	rep := *repayment
	if rep.ID == "" {
		rep.ID = uuid.New().String()
	}
	rep.DebtID = debtID
	rep.CreatedAt = time.Now()

	s.debtsMu.Lock()
	cached, ok := s.debts[debtID]
	var seq uint64
	if ok {
		cached.Repayments = append(cached.Repayments, rep)
		cached.UpdatedAt = time.Now()
		s.debts[debtID] = cached
	}
	seq = s.debtSeq.next(debtID)
	s.debtsMu.Unlock()
	s.markDependentsStale(models.CollectionDebts)

	saved, err := s.storage.DebtStore().AddRepayment(ctx, debtID, &rep)
	if err != nil {
		return nil, fmt.Errorf("%w: repayment on debt %s: %w", models.ErrMutationFailed, debtID, err)
	}
	s.confirmDebt(*saved, seq)
	s.logger.Info().
		Str("debt_id", debtID).
		Str("amount", rep.Amount.String()).
		Msg("Repayment recorded")
	return saved, nil
}

// patchDebt applies an optimistic patch and returns the mutation sequence
// used to detect late-arriving store responses.
func (s *Service) patchDebt(record models.Debt) uint64 {
	s.debtsMu.Lock()
	s.debts[record.ID] = record
	seq := s.debtSeq.next(record.ID)
	s.debtsMu.Unlock()
	s.markDependentsStale(models.CollectionDebts)
	return seq
}

// confirmDebt replaces the optimistic patch with the authoritative record
// unless a newer mutation for the same debt already landed.
func (s *Service) confirmDebt(record models.Debt, seq uint64) {
	s.debtsMu.Lock()
	defer s.debtsMu.Unlock()
	if !s.debtSeq.current(record.ID, seq) {
		s.logger.Debug().
			Str("id", record.ID).
			Err(models.ErrStaleResponse).
			Msg("Skipping debt confirmation")
		return
	}
	if _, ok := s.debts[record.ID]; !ok {
		// Deleted while the store call was in flight.
		return
	}
	s.debts[record.ID] = record
}

// --- Accounts ---

// Accounts returns the account collection, fetching only when idle or
// stale.
func (s *Service) Accounts(ctx context.Context) ([]models.Account, error) {
	s.accMu.Lock()
	defer s.accMu.Unlock()

	if s.needsFetch(models.CollectionAccounts) {
		s.setState(models.CollectionAccounts, models.CollectionFetching)
		stored, err := s.storage.AccountStore().ListAccounts(ctx)
		if err != nil {
			s.markStale(models.CollectionAccounts)
			return nil, fmt.Errorf("failed to fetch accounts: %w", err)
		}
		s.accounts = make(map[string]models.Account, len(stored))
		for _, a := range stored {
			s.accounts[a.ID] = *a
		}
		s.finishFetch(models.CollectionAccounts)
		s.logger.Debug().Int("count", len(stored)).Msg("Account collection fetched")
	}

	accounts := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Name != accounts[j].Name {
			return accounts[i].Name < accounts[j].Name
		}
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}

// CreateAccount stores a new account.
func (s *Service) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	record := *account
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	seq := s.patchAccount(record)

	saved, err := s.storage.AccountStore().SaveAccount(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%w: create account: %w", models.ErrMutationFailed, err)
	}
	s.confirmAccount(*saved, seq)
	return saved, nil
}

// UpdateAccount replaces an account record.
func (s *Service) UpdateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	record := *account
	record.UpdatedAt = time.Now()

	seq := s.patchAccount(record)

	saved, err := s.storage.AccountStore().SaveAccount(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%w: update account %s: %w", models.ErrMutationFailed, record.ID, err)
	}
	s.confirmAccount(*saved, seq)
	return saved, nil
}

// DeleteAccount removes an account.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	s.accMu.Lock()
	delete(s.accounts, id)
	s.accSeq.next(id)
	s.accMu.Unlock()
	s.markDependentsStale(models.CollectionAccounts)

	if err := s.storage.AccountStore().DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("%w: delete account %s: %w", models.ErrMutationFailed, id, err)
	}
	return nil
}

func (s *Service) patchAccount(record models.Account) uint64 {
	s.accMu.Lock()
	s.accounts[record.ID] = record
	seq := s.accSeq.next(record.ID)
	s.accMu.Unlock()
	s.markDependentsStale(models.CollectionAccounts)
	return seq
}

func (s *Service) confirmAccount(record models.Account, seq uint64) {
	s.accMu.Lock()
	defer s.accMu.Unlock()
	if !s.accSeq.current(record.ID, seq) {
		s.logger.Debug().
			Str("id", record.ID).
			Err(models.ErrStaleResponse).
			Msg("Skipping account confirmation")
		return
	}
	if _, ok := s.accounts[record.ID]; !ok {
		return
	}
	s.accounts[record.ID] = record
}

// --- Investments ---

// Investments returns the investment collection, fetching only when idle
// or stale.
func (s *Service) Investments(ctx context.Context) ([]models.Investment, error) {
	s.invMu.Lock()
	defer s.invMu.Unlock()

	if s.needsFetch(models.CollectionInvestments) {
		s.setState(models.CollectionInvestments, models.CollectionFetching)
		stored, err := s.storage.InvestmentStore().ListInvestments(ctx)
		if err != nil {
			s.markStale(models.CollectionInvestments)
			return nil, fmt.Errorf("failed to fetch investments: %w", err)
		}
		s.invs = make(map[string]models.Investment, len(stored))
		for _, inv := range stored {
			s.invs[inv.ID] = *inv
		}
		s.finishFetch(models.CollectionInvestments)
		s.logger.Debug().Int("count", len(stored)).Msg("Investment collection fetched")
	}

	investments := make([]models.Investment, 0, len(s.invs))
	for _, inv := range s.invs {
		investments = append(investments, inv)
	}
	sort.Slice(investments, func(i, j int) bool {
		if investments[i].Name != investments[j].Name {
			return investments[i].Name < investments[j].Name
		}
		return investments[i].ID < investments[j].ID
	})
	return investments, nil
}

// CreateInvestment stores a new investment.
func (s *Service) CreateInvestment(ctx context.Context, investment *models.Investment) (*models.Investment, error) {
	record := *investment
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	seq := s.patchInvestment(record)

	saved, err := s.storage.InvestmentStore().SaveInvestment(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%w: create investment: %w", models.ErrMutationFailed, err)
	}
	s.confirmInvestment(*saved, seq)
	return saved, nil
}

// UpdateInvestment replaces an investment record.
func (s *Service) UpdateInvestment(ctx context.Context, investment *models.Investment) (*models.Investment, error) {
	record := *investment
	record.UpdatedAt = time.Now()

	seq := s.patchInvestment(record)

	saved, err := s.storage.InvestmentStore().SaveInvestment(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%w: update investment %s: %w", models.ErrMutationFailed, record.ID, err)
	}
	s.confirmInvestment(*saved, seq)
	return saved, nil
}

// DeleteInvestment removes an investment.
func (s *Service) DeleteInvestment(ctx context.Context, id string) error {
	s.invMu.Lock()
	delete(s.invs, id)
	s.invSeq.next(id)
	s.invMu.Unlock()

	if err := s.storage.InvestmentStore().DeleteInvestment(ctx, id); err != nil {
		return fmt.Errorf("%w: delete investment %s: %w", models.ErrMutationFailed, id, err)
	}
	return nil
}

func (s *Service) patchInvestment(record models.Investment) uint64 {
	s.invMu.Lock()
	s.invs[record.ID] = record
	seq := s.invSeq.next(record.ID)
	s.invMu.Unlock()
	return seq
}

func (s *Service) confirmInvestment(record models.Investment, seq uint64) {
	s.invMu.Lock()
	defer s.invMu.Unlock()
	if !s.invSeq.current(record.ID, seq) {
		s.logger.Debug().
			Str("id", record.ID).
			Err(models.ErrStaleResponse).
			Msg("Skipping investment confirmation")
		return
	}
	if _, ok := s.invs[record.ID]; !ok {
		return
	}
	s.invs[record.ID] = record
}

// seqTracker assigns per-entity mutation sequence numbers. A store
// response is applied to the cache only while its sequence is still the
// latest for that entity.
type seqTracker struct {
	counter uint64
	byID    map[string]uint64
}

func newSeqTracker() *seqTracker {
	return &seqTracker{byID: make(map[string]uint64)}
}

// next records a new mutation for id and returns its sequence.
// Callers hold the owning collection monitor.
func (t *seqTracker) next(id string) uint64 {
	t.counter++
	t.byID[id] = t.counter
	return t.counter
}

// current reports whether seq is still the latest mutation for id.
func (t *seqTracker) current(id string, seq uint64) bool {
	return t.byID[id] == seq
}
