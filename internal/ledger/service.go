// Package ledger stores a user's transactions and computes their aggregates.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetflow/budgetflow/internal/id"
	"github.com/budgetflow/budgetflow/internal/logger"
	"github.com/budgetflow/budgetflow/internal/model"
	"github.com/budgetflow/budgetflow/internal/store"
)

// ErrNotFound is returned when no transaction has the given id.
var ErrNotFound = errors.New("transaction not found")

// Service provides business logic for one user's transactions.
type Service struct {
	store store.Store
	key   string
	newID func() string
}

// NewService creates a ledger Service for user backed by st.
func NewService(st store.Store, user string) *Service {
	return &Service{store: st, key: store.Key(store.Transactions, user), newID: id.New}
}

// Load returns the stored transactions, newest first. A user without data
// has no transactions.
func (s *Service) Load(ctx context.Context) ([]model.Transaction, error) {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	txns, err := ReadTransactions(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.key, err)
	}
	return txns, nil
}

// Exists reports whether the user has a stored collection.
func (s *Service) Exists(ctx context.Context) (bool, error) {
	_, err := s.store.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading transactions: %w", err)
	}
	return true, nil
}

// Save validates txns and replaces the stored collection.
func (s *Service) Save(ctx context.Context, txns []model.Transaction) error {
	if verrs := Validate(txns); len(verrs) > 0 {
		return ValidationErrors(verrs)
	}

	var buf bytes.Buffer
	if err := WriteTransactions(&buf, txns); err != nil {
		return fmt.Errorf("encoding transactions: %w", err)
	}
	if err := s.store.Put(ctx, s.key, buf.Bytes()); err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}
	return nil
}

// Add prepends a manually entered transaction and returns it with its id.
func (s *Service) Add(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if t.ID == "" {
		t.ID = s.newID()
	}
	t.Amount = t.Amount.Round(2)

	existing, err := s.Load(ctx)
	if err != nil {
		return model.Transaction{}, err
	}

	all := append([]model.Transaction{t}, existing...)
	if err := s.Save(ctx, all); err != nil {
		return model.Transaction{}, err
	}

	log := logger.FromContext(ctx)
	log.Debug().Str("id", t.ID).Str("type", string(t.Type)).Msg("transaction added")
	return t, nil
}

// AddBatch prepends an imported batch as one block in file order. Amounts are
// rounded to cents and rows that round to zero are dropped. It returns the
// number of transactions stored.
func (s *Service) AddBatch(ctx context.Context, batch []model.Transaction) (int, error) {
	log := logger.FromContext(ctx)

	kept := make([]model.Transaction, 0, len(batch))
	for _, t := range batch {
		t.Amount = t.Amount.Round(2)
		if t.Amount.IsZero() {
			log.Warn().Str("id", t.ID).Msg("dropping transaction that rounds to zero")
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		return 0, nil
	}

	existing, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}

	if err := s.Save(ctx, append(kept, existing...)); err != nil {
		return 0, err
	}

	log.Info().Int("count", len(kept)).Msg("import batch stored")
	return len(kept), nil
}

// Get returns the transaction with the given id.
func (s *Service) Get(ctx context.Context, txnID string) (model.Transaction, error) {
	txns, err := s.Load(ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	for _, t := range txns {
		if t.ID == txnID {
			return t, nil
		}
	}
	return model.Transaction{}, fmt.Errorf("%s: %w", txnID, ErrNotFound)
}

// Patch holds the fields to change in Update. Nil fields are left alone.
type Patch struct {
	Date        *time.Time
	Description *string
	Amount      *decimal.Decimal
	Category    *model.Category
	Type        *model.TransactionType
}

func (p Patch) apply(t model.Transaction) model.Transaction {
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Amount != nil {
		t.Amount = p.Amount.Round(2)
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	return t
}

// Update applies p to the transaction with the given id in place.
func (s *Service) Update(ctx context.Context, txnID string, p Patch) (model.Transaction, error) {
	txns, err := s.Load(ctx)
	if err != nil {
		return model.Transaction{}, err
	}

	for i, t := range txns {
		if t.ID != txnID {
			continue
		}
		txns[i] = p.apply(t)
		if err := s.Save(ctx, txns); err != nil {
			return model.Transaction{}, err
		}
		return txns[i], nil
	}
	return model.Transaction{}, fmt.Errorf("%s: %w", txnID, ErrNotFound)
}

// Delete removes the transaction with the given id.
func (s *Service) Delete(ctx context.Context, txnID string) error {
	txns, err := s.Load(ctx)
	if err != nil {
		return err
	}

	kept := txns[:0]
	for _, t := range txns {
		if t.ID != txnID {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(txns) {
		return fmt.Errorf("%s: %w", txnID, ErrNotFound)
	}
	return s.Save(ctx, kept)
}

// Filter narrows List. Zero fields match everything; Start and End are
// inclusive calendar days.
type Filter struct {
	Category model.Category
	Type     model.TransactionType
	Start    time.Time
	End      time.Time
}

// Match reports whether t passes the filter.
func (f Filter) Match(t model.Transaction) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if !f.Start.IsZero() && t.Date.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && t.Date.After(f.End) {
		return false
	}
	return true
}

// Apply returns the transactions of txns that pass the filter.
func (f Filter) Apply(txns []model.Transaction) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// List returns the stored transactions matching f in stored order.
func (s *Service) List(ctx context.Context, f Filter) ([]model.Transaction, error) {
	txns, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	return f.Apply(txns), nil
}

// Seed stores the sample transactions unless the user already has data.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	ok, err := s.Exists(ctx)
	if err != nil || ok {
		return false, err
	}
	return true, s.Save(ctx, SampleTransactions())
}
