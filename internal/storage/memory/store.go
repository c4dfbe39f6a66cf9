// Package memory provides an in-memory storage backend. It is the default
// driver and doubles as the store double in service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/interfaces"
	"github.com/bobmcallan/tally/internal/models"
)

// Manager implements interfaces.StorageManager over process-local maps.
type Manager struct {
	logger *common.Logger

	debtStore       *DebtStore
	accountStore    *AccountStore
	investmentStore *InvestmentStore
}

// NewManager creates an empty in-memory storage manager.
func NewManager(logger *common.Logger) *Manager {
	return &Manager{
		logger:          logger,
		debtStore:       &DebtStore{debts: make(map[string]*models.Debt)},
		accountStore:    &AccountStore{accounts: make(map[string]*models.Account)},
		investmentStore: &InvestmentStore{investments: make(map[string]*models.Investment)},
	}
}

func (m *Manager) DebtStore() interfaces.DebtStore             { return m.debtStore }
func (m *Manager) AccountStore() interfaces.AccountStore       { return m.accountStore }
func (m *Manager) InvestmentStore() interfaces.InvestmentStore { return m.investmentStore }

func (m *Manager) Close() error { return nil }

// DebtStore keeps debts keyed by id. Repayments live inside the debt
// record, so deleting a debt removes its ledger with it.
type DebtStore struct {
	mu    sync.RWMutex
	debts map[string]*models.Debt
}

func (s *DebtStore) GetDebt(ctx context.Context, id string) (*models.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	debt, ok := s.debts[id]
	if !ok {
		return nil, fmt.Errorf("debt %s: %w", id, models.ErrNotFound)
	}
	return copyDebt(debt), nil
}

func (s *DebtStore) ListDebts(ctx context.Context) ([]*models.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	debts := make([]*models.Debt, 0, len(s.debts))
	for _, d := range s.debts {
		debts = append(debts, copyDebt(d))
	}
	sort.Slice(debts, func(i, j int) bool {
		if !debts[i].LentDate.Equal(debts[j].LentDate) {
			return debts[i].LentDate.Before(debts[j].LentDate)
		}
		return debts[i].ID < debts[j].ID
	})
	return debts, nil
}

func (s *DebtStore) SaveDebt(ctx context.Context, debt *models.Debt) (*models.Debt, error) {
	if err := debt.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := copyDebt(debt)
	saved.UpdatedAt = time.Now()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = saved.UpdatedAt
	}
	s.debts[saved.ID] = saved
	return copyDebt(saved), nil
}

func (s *DebtStore) DeleteDebt(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.debts[id]; !ok {
		return fmt.Errorf("debt %s: %w", id, models.ErrNotFound)
	}
	delete(s.debts, id)
	return nil
}

func (s *DebtStore) AddRepayment(ctx context.Context, debtID string, repayment *models.Repayment) (*models.Debt, error) {
	if err := repayment.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	debt, ok := s.debts[debtID]
	if !ok {
		return nil, fmt.Errorf("debt %s: %w", debtID, models.ErrNotFound)
	}

	rep := *repayment
	rep.DebtID = debtID
	debt.Repayments = append(debt.Repayments, rep)
	debt.UpdatedAt = time.Now()
	return copyDebt(debt), nil
}

// AccountStore keeps accounts keyed by id.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
}

func (s *AccountStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, models.ErrNotFound)
	}
	cp := *account
	return &cp, nil
}

func (s *AccountStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		cp := *a
		accounts = append(accounts, &cp)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

func (s *AccountStore) SaveAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *account
	saved.UpdatedAt = time.Now()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = saved.UpdatedAt
	}
	s.accounts[saved.ID] = &saved
	cp := saved
	return &cp, nil
}

func (s *AccountStore) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return fmt.Errorf("account %s: %w", id, models.ErrNotFound)
	}
	delete(s.accounts, id)
	return nil
}

// InvestmentStore keeps investments keyed by id.
type InvestmentStore struct {
	mu          sync.RWMutex
	investments map[string]*models.Investment
}

func (s *InvestmentStore) GetInvestment(ctx context.Context, id string) (*models.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	investment, ok := s.investments[id]
	if !ok {
		return nil, fmt.Errorf("investment %s: %w", id, models.ErrNotFound)
	}
	cp := *investment
	return &cp, nil
}

func (s *InvestmentStore) ListInvestments(ctx context.Context) ([]*models.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	investments := make([]*models.Investment, 0, len(s.investments))
	for _, inv := range s.investments {
		cp := *inv
		investments = append(investments, &cp)
	}
	sort.Slice(investments, func(i, j int) bool { return investments[i].Name < investments[j].Name })
	return investments, nil
}

func (s *InvestmentStore) SaveInvestment(ctx context.Context, investment *models.Investment) (*models.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *investment
	saved.UpdatedAt = time.Now()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = saved.UpdatedAt
	}
	s.investments[saved.ID] = &saved
	cp := saved
	return &cp, nil
}

func (s *InvestmentStore) DeleteInvestment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.investments[id]; !ok {
		return fmt.Errorf("investment %s: %w", id, models.ErrNotFound)
	}
	delete(s.investments, id)
	return nil
}

func copyDebt(d *models.Debt) *models.Debt {
	cp := *d
	if d.DueDate != nil {
		due := *d.DueDate
		cp.DueDate = &due
	}
	if d.Repayments != nil {
		cp.Repayments = make([]models.Repayment, len(d.Repayments))
		copy(cp.Repayments, d.Repayments)
	}
	return &cp
}
