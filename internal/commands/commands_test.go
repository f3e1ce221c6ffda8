package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetflow/budgetflow/internal/config"
	"github.com/budgetflow/budgetflow/internal/importlog"
	"github.com/budgetflow/budgetflow/internal/ledger"
)

var testNow = time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC)

// setup pins the clock, clears the environment and returns a fresh data dir.
func setup(t *testing.T) string {
	t.Helper()
	for _, k := range []string{config.EnvUser, config.EnvDataDir, config.EnvStorage, config.EnvLogLevel} {
		t.Setenv(k, "")
	}
	prev := now
	now = func() time.Time { return testNow }
	t.Cleanup(func() { now = prev })
	return filepath.Join(t.TempDir(), "data")
}

func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	out, err := run(t, dataDir, args...)
	require.NoError(t, err, "budgetflow %s\n%s", strings.Join(args, " "), out)
	return out
}

func TestInit_CreatesStructureAndSamples(t *testing.T) {
	dir := setup(t)

	out := mustRun(t, dir, "init")
	assert.Contains(t, out, "Initialized budgetflow at "+dir)
	assert.Contains(t, out, "Added sample transactions for guest")
	assert.Contains(t, out, "Added sample goals for guest")
	assert.Contains(t, out, "Added sample debts for guest")

	for _, d := range []string{"import", filepath.Join("import", "processed"), "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir())
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Storage.Backend)
}

func TestInit_RefusesExisting(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init", "--empty")

	_, err := run(t, dir, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_EmptySkipsSamples(t *testing.T) {
	dir := setup(t)
	out := mustRun(t, dir, "init", "--empty")
	assert.NotContains(t, out, "Added sample")

	out = mustRun(t, dir, "tx", "list")
	assert.Contains(t, out, "No transactions")
}

func TestTx_Lifecycle(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init", "--empty")

	out := mustRun(t, dir, "tx", "add", "--description", "Coffee", "--amount", "4.5", "--category", "food & dining")
	require.True(t, strings.HasPrefix(out, "Added expense $4.50 Coffee ("), out)
	id := strings.TrimSuffix(strings.TrimSpace(out[strings.LastIndex(out, "(")+1:]), ")")
	require.NotEmpty(t, id)

	out = mustRun(t, dir, "tx", "list")
	assert.Contains(t, out, "2024-01-20")
	assert.Contains(t, out, "Food & Dining")
	assert.Contains(t, out, "Coffee")

	out = mustRun(t, dir, "tx", "update", id, "--amount", "5.25", "--description", "Latte")
	assert.Contains(t, out, "Updated "+id)

	out = mustRun(t, dir, "tx", "export")
	assert.True(t, strings.HasPrefix(out, ledger.Header+"\n"), out)
	assert.Contains(t, out, id+",2024-01-20,Latte,5.25,Food & Dining,expense")

	out = mustRun(t, dir, "tx", "delete", id)
	assert.Contains(t, out, "Deleted "+id)

	_, err := run(t, dir, "tx", "delete", id)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestTx_AddRejectsInvalidInput(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init", "--empty")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"negative amount", []string{"--description", "x", "--amount", "-5"}, "amount"},
		{"too many decimals", []string{"--description", "x", "--amount", "1.234"}, "amount"},
		{"bad type", []string{"--description", "x", "--amount", "1", "--type", "transfer"}, "type"},
		{"bad date", []string{"--description", "x", "--amount", "1", "--date", "01/02/2024"}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dir, append([]string{"tx", "add"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTx_ListFiltersAndTotals(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init")

	out := mustRun(t, dir, "tx", "list", "--type", "expense", "--from", "2024-01-17")
	assert.Contains(t, out, "Gas Station")
	assert.Contains(t, out, "Netflix Subscription")
	assert.NotContains(t, out, "Grocery Shopping")
	assert.NotContains(t, out, "Salary Payment")

	out = mustRun(t, dir, "tx", "list", "--totals")
	assert.Contains(t, out, "$5,000.00")
	assert.Contains(t, out, "$206.49")
	assert.Contains(t, out, "$4,793.51")

	_, err := run(t, dir, "tx", "list", "--from", "yesterday")
	require.Error(t, err)
}

func TestTx_ExportToFile(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init")

	path := filepath.Join(t.TempDir(), "out.csv")
	out := mustRun(t, dir, "tx", "export", "--out", path)
	assert.Contains(t, out, "Exported 4 transactions to "+path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	txns, err := ledger.ReadTransactions(f)
	require.NoError(t, err)
	assert.Len(t, txns, 4)
}

const bankCSV = "Date;Description;Amount\n" +
	"2024-01-19;\"ACME PAYROLL\";2500.00\n" +
	"2024-01-19;Corner Shop;-12.30\n" +
	"not a date;Broken;1\n"

func TestImport_FileArgument(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init", "--empty")

	path := filepath.Join(t.TempDir(), "bank.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Description,Amount\n2024-01-19,Payroll,2500.00\n2024-01-19,Corner Shop,-12.30\nbad,Broken,1\n"), 0o644))

	out := mustRun(t, dir, "import", path)
	assert.Contains(t, out, "bank.csv: imported 2 transactions (1 skipped)")

	out = mustRun(t, dir, "tx", "list")
	assert.Contains(t, out, "Payroll")
	assert.Contains(t, out, "Corner Shop")

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "guest", entries[0].User)
	assert.Equal(t, "bank.csv", entries[0].Source)
	assert.Equal(t, 2, entries[0].Imported)
	assert.Equal(t, 1, entries[0].Skipped)
	assert.True(t, testNow.Equal(entries[0].Timestamp))

	out = mustRun(t, dir, "import", "history")
	assert.Contains(t, out, "bank.csv")
}

func TestImport_SubCentRowCountsAsSkipped(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init", "--empty")

	path := filepath.Join(t.TempDir(), "bank.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Description,Amount\n2024-01-19,Interest,0.004\n2024-01-19,Fee,-1.00\n"), 0o644))

	out := mustRun(t, dir, "import", path)
	assert.Contains(t, out, "bank.csv: imported 1 transactions (1 skipped)")

	out = mustRun(t, dir, "tx", "list")
	assert.Contains(t, out, "Fee")
	assert.NotContains(t, out, "Interest")

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Imported)
	assert.Equal(t, 1, entries[0].Skipped)
}

func TestImport_ScansImportDir(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init", "--empty")

	out := mustRun(t, dir, "import")
	assert.Contains(t, out, "No CSV files in")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "jan.csv"), []byte(bankCSV), 0o644))
	out = mustRun(t, dir, "import")
	assert.Contains(t, out, "jan.csv: imported 2 transactions (1 skipped)")

	_, err := os.Stat(filepath.Join(dir, "import", "processed", "jan.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "import", "jan.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestImport_DryRunStoresNothing(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init", "--empty")

	path := filepath.Join(t.TempDir(), "bank.csv")
	require.NoError(t, os.WriteFile(path, []byte(bankCSV), 0o644))

	out := mustRun(t, dir, "import", "--dry-run", path)
	assert.Contains(t, out, "would import 2 transactions")
	assert.Contains(t, out, "ACME PAYROLL")

	out = mustRun(t, dir, "tx", "list")
	assert.Contains(t, out, "No transactions")
	out = mustRun(t, dir, "import", "history")
	assert.Contains(t, out, "No imports yet")
}

func TestImport_FailureReported(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init", "--empty")

	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Description,Amount\nnope,nothing,x\n"), 0o644))

	out, err := run(t, dir, "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files failed to import")
	assert.Contains(t, out, "empty.csv:")

	_, err = run(t, dir, "import", "--parser", "ofx", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parser")
}

func TestGoal_Lifecycle(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init")

	out := mustRun(t, dir, "goal", "list")
	assert.Contains(t, out, "Emergency Fund")
	assert.Contains(t, out, "56.7%")
	assert.Contains(t, out, "346 days remaining")

	out = mustRun(t, dir, "goal", "add", "--title", "Laptop", "--target", "1200", "--date", "2024-01-10", "--category", "Other")
	require.Contains(t, out, "Added goal \"Laptop\"")
	id := strings.TrimSuffix(strings.TrimSpace(out[strings.LastIndex(out, "(")+1:]), ")")

	out = mustRun(t, dir, "goal", "list")
	assert.Contains(t, out, "10 days overdue")

	out = mustRun(t, dir, "goal", "contribute", id, "1500")
	assert.Contains(t, out, "Laptop: $1,500.00 of $1,200.00 (100.0%)")

	_, err := run(t, dir, "goal", "contribute", id, "0")
	require.Error(t, err)

	out = mustRun(t, dir, "goal", "delete", id)
	assert.Contains(t, out, "Deleted goal "+id)
	out = mustRun(t, dir, "goal", "list")
	assert.NotContains(t, out, "Laptop")
}

func TestDebt_ListAndPlan(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init")

	out := mustRun(t, dir, "debt", "list")
	assert.Contains(t, out, "Chase Credit Card")
	assert.Contains(t, out, "2024-02-01")
	assert.NotContains(t, out, "overdue")
	assert.Contains(t, out, "Total debt: $15,700.00")
	assert.Contains(t, out, "Minimum payments: $245.00")

	out = mustRun(t, dir, "debt", "plan")
	assert.Contains(t, out, "Strategy: avalanche")
	chase := strings.Index(out, "Chase Credit Card")
	student := strings.Index(out, "Student Loan")
	require.True(t, chase > 0 && student > 0)
	assert.Less(t, chase, student)
	assert.Contains(t, out, "49 months")
	assert.Contains(t, out, "101 months")

	out = mustRun(t, dir, "debt", "plan", "--strategy", "snowball")
	assert.Less(t, strings.Index(out, "Chase Credit Card"), strings.Index(out, "Student Loan"))

	_, err := run(t, dir, "debt", "plan", "--strategy", "random")
	require.Error(t, err)
}

func TestDebt_AddPayDelete(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init", "--empty")

	out := mustRun(t, dir, "debt", "add", "--creditor", "Store Card", "--balance", "300", "--rate", "24.9",
		"--minimum", "25", "--due", "2024-01-25", "--type", "credit card")
	require.Contains(t, out, "Added debt Store Card $300.00")
	id := strings.TrimSuffix(strings.TrimSpace(out[strings.LastIndex(out, "(")+1:]), ")")

	out = mustRun(t, dir, "debt", "list")
	assert.Contains(t, out, "2024-01-25 (due soon)")

	out = mustRun(t, dir, "debt", "pay", id, "500")
	assert.Contains(t, out, "Store Card balance: $0.00")

	out = mustRun(t, dir, "debt", "delete", id)
	assert.Contains(t, out, "Deleted debt "+id)
	out = mustRun(t, dir, "debt", "list")
	assert.Contains(t, out, "No debts")

	_, err := run(t, dir, "debt", "add", "--creditor", "X", "--balance", "1", "--rate", "120",
		"--minimum", "1", "--due", "2024-01-25")
	require.Error(t, err)
}

func TestPayoff(t *testing.T) {
	setup(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"finite", []string{"--balance", "5000", "--rate", "18", "--payment", "200"}, "Months to pay off: 32"},
		{"single payment", []string{"--balance", "100", "--rate", "12", "--payment", "500"}, "Months to pay off: 1"},
		{"below interest", []string{"--balance", "10000", "--rate", "24", "--payment", "100"}, "never paid off"},
		{"no payment", []string{"--balance", "100", "--payment", "0"}, "never paid off"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustRun(t, t.TempDir(), append([]string{"payoff"}, tt.args...)...)
			assert.Contains(t, out, tt.want)
		})
	}

	rejected := []struct {
		name string
		args []string
		want string
	}{
		{"not a number", []string{"--balance", "lots", "--payment", "1"}, "balance"},
		{"negative balance", []string{"--balance", "-100", "--payment", "50"}, "balance"},
		{"negative balance with interest", []string{"--balance", "-100", "--rate", "18", "--payment", "50"}, "balance"},
		{"rate above 100", []string{"--balance", "100", "--rate", "101", "--payment", "50"}, "rate"},
		{"negative payment", []string{"--balance", "100", "--payment", "-5"}, "payment"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, t.TempDir(), append([]string{"payoff"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.NotContains(t, out, "Months to pay off")
		})
	}
}

func TestReport_JSON(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init")

	out := mustRun(t, dir, "report", "--period", "all", "--out", "-")

	var r map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "all", r["period"])

	summary := r["summary"].(map[string]any)
	assert.Equal(t, "5000", summary["totalIncome"])
	assert.Equal(t, "206.49", summary["totalExpenses"])
	assert.Equal(t, float64(4), summary["totalTransactions"])

	goals := r["goals"].(map[string]any)
	assert.Equal(t, float64(2), goals["totalGoals"])
	debts := r["debts"].(map[string]any)
	assert.Equal(t, "15700", debts["totalBalance"])

	breakdown := r["categoryBreakdown"].(map[string]any)
	assert.Equal(t, "125.5", breakdown["Food & Dining"])
}

func TestReport_DefaultFileName(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	out := mustRun(t, dir, "report", "--period", "last30")
	assert.Contains(t, out, "Wrote last30 report to budget-report-last30-2024-01-20.json")

	data, err := os.ReadFile("budget-report-last30-2024-01-20.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"period": "last30"`)

	_, err = run(t, dir, "report", "--period", "decade")
	require.Error(t, err)
}

func TestSQLiteBackend(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init", "--storage", "sqlite")

	_, err := os.Stat(filepath.Join(dir, "budgetflow.db"))
	require.NoError(t, err)

	mustRun(t, dir, "tx", "add", "--description", "Bus", "--amount", "2.75", "--category", "Transportation")
	out := mustRun(t, dir, "tx", "list")
	assert.Contains(t, out, "Bus")
	assert.Contains(t, out, "Salary Payment")
}

func TestUsersArePartitioned(t *testing.T) {
	dir := setup(t)
	mustRun(t, dir, "init")

	out := mustRun(t, dir, "--user", "alice", "tx", "list")
	assert.Contains(t, out, "No transactions")

	mustRun(t, dir, "--user", "alice", "tx", "add", "--description", "Books", "--amount", "30", "--category", "Education")
	out = mustRun(t, dir, "tx", "list")
	assert.NotContains(t, out, "Books")
}
