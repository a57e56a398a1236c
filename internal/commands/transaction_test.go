package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	out := mustRun(t, "-C", dir, "add", "income", "1000", "Salary")
	assert.Contains(t, out, "Balance: $1,000.00")
	assert.Contains(t, out, "▲ balance up")
	txID := addedID(t, out)
	assert.Contains(t, out, "Added "+txID+": Salary +$1,000.00")

	out = mustRun(t, "-C", dir, "add", "expense", "12.50", "Coffee", "beans")
	assert.Contains(t, out, "Added ")
	assert.Contains(t, out, "Coffee beans -$12.50")
	assert.Contains(t, out, "▼ balance down")
	assert.Contains(t, out, "Balance: $987.50")
}

func TestAdd_Invalid(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	out, err := runTally(t, "-C", dir, "add", "expense", "abc")
	require.Error(t, err)
	assert.Contains(t, out, "amount: Amount must be a positive number")
	assert.Contains(t, out, "description: Description cannot be empty")
	assert.NotContains(t, out, "Added")

	out = mustRun(t, "-C", dir, "list")
	assert.Contains(t, out, "No transactions.")
}

func TestAdd_TooLarge(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	out, err := runTally(t, "-C", dir, "add", "income", "100000000000000000", "Yacht")
	require.Error(t, err)
	assert.Contains(t, out, "amount: Amount is too large")

	out = mustRun(t, "-C", dir, "balance")
	assert.Equal(t, "Balance: $0.00\n", out)
}

func TestAdd_UnknownType(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	out, err := runTally(t, "-C", dir, "add", "refund", "10", "Shoes")
	require.Error(t, err)
	assert.Contains(t, out, "type: Type must be income or expense")
}

func TestList(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	mustRun(t, "-C", dir, "add", "income", "1000", "Salary")
	mustRun(t, "-C", dir, "add", "expense", "300", "Rent")

	out := mustRun(t, "-C", dir, "list")
	assert.Contains(t, out, "Salary")
	assert.Contains(t, out, "+$1,000.00")
	assert.Contains(t, out, "Rent")
	assert.Contains(t, out, "-$300.00")
	assert.Contains(t, out, "Balance: $700.00")
	assert.NotContains(t, out, "balance up", "listing does not change the balance")
}

func TestBalance_Negative(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	mustRun(t, "-C", dir, "add", "expense", "42", "Groceries")

	out := mustRun(t, "-C", dir, "balance")
	assert.Equal(t, "Balance: -$42.00\n", out)
}

func TestEdit(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	txID := addedID(t, mustRun(t, "-C", dir, "add", "income", "1000", "Salary"))

	out := mustRun(t, "-C", dir, "edit", txID, "--amount", "1200")
	assert.Contains(t, out, "Editing "+txID)
	assert.Contains(t, out, "Updated "+txID+": Salary +$1,200.00")
	assert.Contains(t, out, "▲ balance up")

	out = mustRun(t, "-C", dir, "edit", txID, "--type", "expense", "--description", "Refund")
	assert.Contains(t, out, "Updated "+txID+": Refund -$1,200.00")

	out = mustRun(t, "-C", dir, "list")
	assert.Contains(t, out, txID)
	assert.Contains(t, out, "Balance: -$1,200.00")
}

func TestEdit_Invalid(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	txID := addedID(t, mustRun(t, "-C", dir, "add", "income", "1000", "Salary"))

	out, err := runTally(t, "-C", dir, "edit", txID, "--amount=0")
	require.Error(t, err)
	assert.Contains(t, out, "amount: Amount must be a positive number")

	out = mustRun(t, "-C", dir, "balance")
	assert.Equal(t, "Balance: $1,000.00\n", out)
}

func TestEdit_Unknown(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	_, err := runTally(t, "-C", dir, "edit", "12345", "--amount", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction 12345 not found")

	_, err = runTally(t, "-C", dir, "edit", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transaction ID")
}

func TestDelete(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	salary := addedID(t, mustRun(t, "-C", dir, "add", "income", "1000", "Salary"))
	mustRun(t, "-C", dir, "add", "expense", "300", "Rent")

	out := mustRun(t, "-C", dir, "delete", salary)
	assert.Contains(t, out, "Deleted "+salary+": Salary")
	assert.Contains(t, out, "Balance: -$300.00")
	assert.Contains(t, out, "▼ balance down")

	out = mustRun(t, "-C", dir, "list")
	assert.NotContains(t, out, "Salary")

	_, err := runTally(t, "-C", dir, "delete", salary)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_CorruptLedgerIsNeverOverwritten(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "transactions.json")
	stored := `[{"id":1,"description":"Salary","amount":1000,"type":"income"},` +
		`{"id":1,"description":"Rent","amount":400,"type":"expense"}]`
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(stored), 0o644))

	for _, args := range [][]string{
		{"add", "expense", "3", "Coffee"},
		{"delete", "1"},
		{"list"},
	} {
		_, err := runTally(t, append([]string{"-C", dir}, args...)...)
		require.Error(t, err, "tally %v", args)
		assert.Contains(t, err.Error(), "duplicate id")
		assert.Contains(t, err.Error(), "tally reset --yes")
	}
	_, _, err := runTallyInput(t, "add expense 3 Coffee\nquit\n", "-C", dir, "shell")
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, stored, string(data), "stored ledger must be untouched")
}

func TestReset(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "transactions.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := runTally(t, "-C", dir, "reset")
	require.Error(t, err, "reset needs --yes")

	out := mustRun(t, "-C", dir, "reset", "--yes")
	assert.Contains(t, out, "Backed up stored ledger to ")
	assert.Contains(t, out, "Ledger reset.")

	backups, err := filepath.Glob(filepath.Join(dir, "backup", "transactions-*.json"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	data, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, "not json", string(data))

	mustRun(t, "-C", dir, "add", "expense", "3", "Coffee")
	out = mustRun(t, "-C", dir, "balance")
	assert.Equal(t, "Balance: -$3.00\n", out)
}

func TestConfig_Invalid(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tally.yaml"), []byte("storage:\n  backend: nosuch\n"), 0o644))

	_, err := runTally(t, "-C", dir, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestConfig_EnvFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("TALLY_CURRENCY=EUR\nTALLY_STORAGE_BACKEND=sqlite\n"), 0o644))

	out := mustRun(t, "-C", dir, "add", "income", "10", "Gift")
	assert.Contains(t, out, "€")

	_, err := os.Stat(filepath.Join(dir, "tally.sqlite"))
	require.NoError(t, err, "sqlite backend should be selected from .env")
}

func TestDebugFlag(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	_, stderr, err := runTallyInput(t, "", "-C", dir, "--debug", "list")
	require.NoError(t, err)
	assert.Contains(t, stderr, "ledger loaded")

	_, stderr, err = runTallyInput(t, "", "-C", dir, "list")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "ledger loaded")
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "--version")
	assert.Contains(t, out, "dev")
}

func TestAutoCommit(t *testing.T) {
	requireGit(t)
	isolateEnv(t)
	dir := t.TempDir()
	mustRun(t, "init", dir, "--git")

	txID := addedID(t, mustRun(t, "-C", dir, "add", "income", "1000", "Salary"))
	mustRun(t, "-C", dir, "delete", txID)

	log := gitLog(t, dir, "%s")
	assert.Contains(t, log, "add: Salary ("+txID+")")
	assert.Contains(t, log, "delete: Salary ("+txID+")")
}

func TestAutoCommit_DisabledWithoutFlag(t *testing.T) {
	requireGit(t)
	isolateEnv(t)
	dir := t.TempDir()
	mustRun(t, "init", dir)

	mustRun(t, "-C", dir, "add", "income", "1000", "Salary")
	_, err := os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err))
}
