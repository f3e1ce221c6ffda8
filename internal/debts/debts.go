// Package debts stores debts, records payments and plans their payoff.
package debts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/budgetflow/budgetflow/internal/id"
	"github.com/budgetflow/budgetflow/internal/model"
	"github.com/budgetflow/budgetflow/internal/payoff"
	"github.com/budgetflow/budgetflow/internal/store"
)

// ErrNotFound is returned when no debt has the given id.
var ErrNotFound = errors.New("debt not found")

// Service manages one user's debts.
type Service struct {
	store store.Store
	key   string
	newID func() string
	now   func() time.Time
}

// NewService creates a debts Service for user backed by st.
func NewService(st store.Store, user string) *Service {
	return &Service{
		store: st,
		key:   store.Key(store.Debts, user),
		newID: id.New,
		now:   time.Now,
	}
}

// Load returns the stored debts in creation order.
func (s *Service) Load(ctx context.Context) ([]model.Debt, error) {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading debts: %w", err)
	}

	var debts []model.Debt
	if err := yaml.Unmarshal(data, &debts); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.key, err)
	}
	return debts, nil
}

func (s *Service) save(ctx context.Context, debts []model.Debt) error {
	if debts == nil {
		debts = []model.Debt{}
	}
	data, err := yaml.Marshal(debts)
	if err != nil {
		return fmt.Errorf("encoding debts: %w", err)
	}
	if err := s.store.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("saving debts: %w", err)
	}
	return nil
}

// Add appends d, filling in its id and creation time.
func (s *Service) Add(ctx context.Context, d model.Debt) (model.Debt, error) {
	debts, err := s.Load(ctx)
	if err != nil {
		return model.Debt{}, err
	}

	d.ID = s.newID()
	d.CreatedAt = s.now().UTC()
	if err := s.save(ctx, append(debts, d)); err != nil {
		return model.Debt{}, err
	}
	return d, nil
}

// Get returns the debt with the given id.
func (s *Service) Get(ctx context.Context, debtID string) (model.Debt, error) {
	debts, err := s.Load(ctx)
	if err != nil {
		return model.Debt{}, err
	}
	for _, d := range debts {
		if d.ID == debtID {
			return d, nil
		}
	}
	return model.Debt{}, fmt.Errorf("%s: %w", debtID, ErrNotFound)
}

// Update replaces the debt with fn's result.
func (s *Service) Update(ctx context.Context, debtID string, fn func(*model.Debt)) (model.Debt, error) {
	debts, err := s.Load(ctx)
	if err != nil {
		return model.Debt{}, err
	}
	for i := range debts {
		if debts[i].ID != debtID {
			continue
		}
		fn(&debts[i])
		debts[i].ID = debtID
		if err := s.save(ctx, debts); err != nil {
			return model.Debt{}, err
		}
		return debts[i], nil
	}
	return model.Debt{}, fmt.Errorf("%s: %w", debtID, ErrNotFound)
}

// Pay reduces the balance by amount, never below zero.
func (s *Service) Pay(ctx context.Context, debtID string, amount decimal.Decimal) (model.Debt, error) {
	if !amount.IsPositive() {
		return model.Debt{}, fmt.Errorf("payment must be positive, got %s", amount)
	}
	return s.Update(ctx, debtID, func(d *model.Debt) {
		d.Balance = decimal.Max(decimal.Zero, d.Balance.Sub(amount))
	})
}

// Delete removes the debt with the given id.
func (s *Service) Delete(ctx context.Context, debtID string) error {
	debts, err := s.Load(ctx)
	if err != nil {
		return err
	}
	kept := debts[:0]
	for _, d := range debts {
		if d.ID != debtID {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(debts) {
		return fmt.Errorf("%s: %w", debtID, ErrNotFound)
	}
	return s.save(ctx, kept)
}

// PlanItem is one debt in payoff order with its projection at the minimum
// payment.
type PlanItem struct {
	Debt   model.Debt
	Payoff payoff.Result
	Due    DueStatus
}

// Plan orders the stored debts by strategy and projects each one.
func (s *Service) Plan(ctx context.Context, strategy payoff.Strategy) ([]PlanItem, error) {
	debts, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ordered := payoff.Order(debts, strategy)
	items := make([]PlanItem, len(ordered))
	for i, d := range ordered {
		items[i] = PlanItem{Debt: d, Payoff: payoff.ForDebt(d), Due: DueStatusOf(d, now)}
	}
	return items, nil
}

// Seed stores the sample debts unless the user already has some.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	_, err := s.store.Get(ctx, s.key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("loading debts: %w", err)
	}
	return true, s.save(ctx, SampleDebts())
}

// SampleDebts returns the starter debts written for a new user.
func SampleDebts() []model.Debt {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.Debt{
		{
			ID:             "1",
			Creditor:       "Chase Credit Card",
			Balance:        decimal.NewFromInt(3200),
			InterestRate:   decimal.RequireFromString("18.99"),
			MinimumPayment: decimal.NewFromInt(95),
			DueDate:        time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
			Type:           model.DebtCreditCard,
			CreatedAt:      created,
		},
		{
			ID:             "2",
			Creditor:       "Student Loan",
			Balance:        decimal.NewFromInt(12500),
			InterestRate:   decimal.RequireFromString("4.5"),
			MinimumPayment: decimal.NewFromInt(150),
			DueDate:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Type:           model.DebtStudentLoan,
			CreatedAt:      created,
		},
	}
}
