package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetflow/budgetflow/internal/model"
	"github.com/budgetflow/budgetflow/internal/store"
)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	svc := NewService(st, "alice")
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return svc, st
}

func ids(txns []model.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.ID
	}
	return out
}

func TestLoad_Empty(t *testing.T) {
	svc, _ := newTestService(t)
	txns, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestAdd_PrependsNewest(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.Add(ctx, validTxn(""))
	require.NoError(t, err)
	assert.Equal(t, "id-1", first.ID)

	_, err = svc.Add(ctx, validTxn(""))
	require.NoError(t, err)

	txns, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-2", "id-1"}, ids(txns))
}

func TestAdd_RoundsAmount(t *testing.T) {
	svc, _ := newTestService(t)
	txn := validTxn("")
	txn.Amount = dec("10.005")

	got, err := svc.Add(context.Background(), txn)
	require.NoError(t, err)
	assert.Equal(t, "10.01", got.Amount.StringFixed(2))
}

func TestAdd_ValidationFailure(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	txn := validTxn("")
	txn.Category = "Groceries"
	_, err := svc.Add(ctx, txn)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, RuleCategory, verrs[0].Rule)

	// Nothing was written.
	ok, err := svc.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddBatch_BlockInFileOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Add(ctx, validTxn(""))
	require.NoError(t, err)

	n, err := svc.AddBatch(ctx, []model.Transaction{validTxn("csv-b-1"), validTxn("csv-b-2")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	txns, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"csv-b-1", "csv-b-2", "id-1"}, ids(txns))
}

func TestAddBatch_DuplicateImportRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	batch := []model.Transaction{validTxn("csv-b-1")}
	_, err := svc.AddBatch(ctx, batch)
	require.NoError(t, err)
	_, err = svc.AddBatch(ctx, batch)
	assert.Error(t, err)
	_, err = svc.AddBatch(ctx, nil)
	assert.NoError(t, err)
}

func TestAddBatch_DropsSubCentAmounts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tiny := validTxn("csv-b-1")
	tiny.Amount = dec("0.004")
	rounded := validTxn("csv-b-2")
	rounded.Amount = dec("0.005")

	n, err := svc.AddBatch(ctx, []model.Transaction{tiny, rounded})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	txns, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "csv-b-2", txns[0].ID)
	assert.Equal(t, "0.01", txns[0].Amount.StringFixed(2))

	n, err = svc.AddBatch(ctx, []model.Transaction{tiny})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	added, err := svc.Add(ctx, validTxn(""))
	require.NoError(t, err)

	desc := "Espresso"
	amount := dec("3.20")
	cat := model.CategoryEntertainment
	updated, err := svc.Update(ctx, added.ID, Patch{Description: &desc, Amount: &amount, Category: &cat})
	require.NoError(t, err)

	assert.Equal(t, "Espresso", updated.Description)
	assert.True(t, updated.Amount.Equal(amount))
	assert.Equal(t, model.CategoryEntertainment, updated.Category)
	// Untouched fields survive.
	assert.Equal(t, model.TypeExpense, updated.Type)
	assert.True(t, added.Date.Equal(updated.Date))

	got, err := svc.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Espresso", got.Description)
}

func TestUpdate_Invalid(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	added, err := svc.Add(ctx, validTxn(""))
	require.NoError(t, err)

	neg := decimal.NewFromInt(-5)
	_, err = svc.Update(ctx, added.ID, Patch{Amount: &neg})
	assert.ErrorContains(t, err, "validation failed")

	got, err := svc.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("4.50")))
}

func TestUpdateDelete_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Update(ctx, "nope", Patch{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "nope"), ErrNotFound)
	_, err = svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	for i := 0; i < 3; i++ {
		_, err := svc.Add(ctx, validTxn(""))
		require.NoError(t, err)
	}

	require.NoError(t, svc.Delete(ctx, "id-2"))
	txns, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-3", "id-1"}, ids(txns))
}

func TestList_Filter(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"1", "2", "3", "4"}},
		{"expenses", Filter{Type: model.TypeExpense}, []string{"2", "3", "4"}},
		{"category", Filter{Category: model.CategoryTransport}, []string{"3"}},
		{"start inclusive", Filter{Start: date(2024, 1, 17)}, []string{"3", "4"}},
		{"end inclusive", Filter{End: date(2024, 1, 16)}, []string{"1", "2"}},
		{"range and type", Filter{Start: date(2024, 1, 16), End: date(2024, 1, 17), Type: model.TypeExpense}, []string{"2", "3"}},
		{"no match", Filter{Category: model.CategoryTravel}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSeed_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	seeded, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	require.NoError(t, svc.Delete(ctx, "1"))

	seeded, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	txns, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, txns, 3)
}

func TestUsersArePartitioned(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	_, err := svc.Add(ctx, validTxn(""))
	require.NoError(t, err)

	guest := NewService(st, "")
	txns, err := guest.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)

	_, err = st.Get(ctx, "budgetflow_transactions_alice")
	assert.NoError(t, err)
}
