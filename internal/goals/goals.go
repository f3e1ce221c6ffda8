// Package goals stores savings goals and tracks progress toward them.
package goals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/budgetflow/budgetflow/internal/id"
	"github.com/budgetflow/budgetflow/internal/model"
	"github.com/budgetflow/budgetflow/internal/store"
)

// ErrNotFound is returned when no goal has the given id.
var ErrNotFound = errors.New("goal not found")

// Service manages one user's goals.
type Service struct {
	store store.Store
	key   string
	newID func() string
	now   func() time.Time
}

// NewService creates a goals Service for user backed by st.
func NewService(st store.Store, user string) *Service {
	return &Service{
		store: st,
		key:   store.Key(store.Goals, user),
		newID: id.New,
		now:   time.Now,
	}
}

// Load returns the stored goals in creation order.
func (s *Service) Load(ctx context.Context) ([]model.Goal, error) {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}

	var goals []model.Goal
	if err := yaml.Unmarshal(data, &goals); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.key, err)
	}
	return goals, nil
}

func (s *Service) save(ctx context.Context, goals []model.Goal) error {
	if goals == nil {
		goals = []model.Goal{}
	}
	data, err := yaml.Marshal(goals)
	if err != nil {
		return fmt.Errorf("encoding goals: %w", err)
	}
	if err := s.store.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("saving goals: %w", err)
	}
	return nil
}

// Add appends g, filling in its id and creation time.
func (s *Service) Add(ctx context.Context, g model.Goal) (model.Goal, error) {
	goals, err := s.Load(ctx)
	if err != nil {
		return model.Goal{}, err
	}

	g.ID = s.newID()
	g.CreatedAt = s.now().UTC()
	if err := s.save(ctx, append(goals, g)); err != nil {
		return model.Goal{}, err
	}
	return g, nil
}

// Get returns the goal with the given id.
func (s *Service) Get(ctx context.Context, goalID string) (model.Goal, error) {
	goals, err := s.Load(ctx)
	if err != nil {
		return model.Goal{}, err
	}
	for _, g := range goals {
		if g.ID == goalID {
			return g, nil
		}
	}
	return model.Goal{}, fmt.Errorf("%s: %w", goalID, ErrNotFound)
}

// Update replaces the goal with fn's result.
func (s *Service) Update(ctx context.Context, goalID string, fn func(*model.Goal)) (model.Goal, error) {
	goals, err := s.Load(ctx)
	if err != nil {
		return model.Goal{}, err
	}
	for i := range goals {
		if goals[i].ID != goalID {
			continue
		}
		fn(&goals[i])
		goals[i].ID = goalID
		if err := s.save(ctx, goals); err != nil {
			return model.Goal{}, err
		}
		return goals[i], nil
	}
	return model.Goal{}, fmt.Errorf("%s: %w", goalID, ErrNotFound)
}

// Contribute adds amount to the goal's current amount.
func (s *Service) Contribute(ctx context.Context, goalID string, amount decimal.Decimal) (model.Goal, error) {
	if !amount.IsPositive() {
		return model.Goal{}, fmt.Errorf("contribution must be positive, got %s", amount)
	}
	return s.Update(ctx, goalID, func(g *model.Goal) {
		g.CurrentAmount = g.CurrentAmount.Add(amount)
	})
}

// Delete removes the goal with the given id.
func (s *Service) Delete(ctx context.Context, goalID string) error {
	goals, err := s.Load(ctx)
	if err != nil {
		return err
	}
	kept := goals[:0]
	for _, g := range goals {
		if g.ID != goalID {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(goals) {
		return fmt.Errorf("%s: %w", goalID, ErrNotFound)
	}
	return s.save(ctx, kept)
}

// Seed stores the sample goals unless the user already has some.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	_, err := s.store.Get(ctx, s.key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("loading goals: %w", err)
	}
	return true, s.save(ctx, SampleGoals())
}

// SampleGoals returns the starter goals written for a new user.
func SampleGoals() []model.Goal {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.Goal{
		{
			ID:            "1",
			Title:         "Emergency Fund",
			Description:   "6 months of expenses for financial security",
			TargetAmount:  decimal.NewFromInt(15000),
			CurrentAmount: decimal.NewFromInt(8500),
			TargetDate:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			Category:      model.GoalEmergencyFund,
			CreatedAt:     created,
		},
		{
			ID:            "2",
			Title:         "Summer Vacation",
			Description:   "Trip to Europe with family",
			TargetAmount:  decimal.NewFromInt(5000),
			CurrentAmount: decimal.NewFromInt(2100),
			TargetDate:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Category:      model.GoalVacation,
			CreatedAt:     created,
		},
	}
}
