package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_Stdout(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	txID := addedID(t, mustRun(t, "-C", dir, "add", "expense", "400", "Rent,", "January"))

	out := mustRun(t, "-C", dir, "export")
	assert.Equal(t, "id,description,amount,type\n"+txID+",\"Rent, January\",400,expense\n", out)
}

func TestExportImport_RoundTrip(t *testing.T) {
	isolateEnv(t)
	src := t.TempDir()
	mustRun(t, "-C", src, "add", "income", "1000", "Salary")
	mustRun(t, "-C", src, "add", "expense", "300", "Rent")

	file := filepath.Join(t.TempDir(), "ledger.csv")
	out := mustRun(t, "-C", src, "export", "--out", file)
	assert.Contains(t, out, "Exported 2 transactions to "+file)

	dst := t.TempDir()
	out = mustRun(t, "-C", dst, "import", file)
	assert.Contains(t, out, "Imported 2 transactions (0 skipped)")
	assert.Contains(t, out, "Balance: $700.00")

	out = mustRun(t, "-C", dst, "list")
	assert.Contains(t, out, "Salary")
	assert.Contains(t, out, "Rent")
}

func TestExportImport_SubCentAmounts(t *testing.T) {
	isolateEnv(t)
	src := t.TempDir()
	mustRun(t, "-C", src, "add", "expense", "0.004", "fee")
	mustRun(t, "-C", src, "add", "expense", "1.005", "fx")

	file := filepath.Join(t.TempDir(), "ledger.csv")
	mustRun(t, "-C", src, "export", "--out", file)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), ",fee,0.004,expense\n")
	assert.Contains(t, string(data), ",fx,1.005,expense\n")

	dst := t.TempDir()
	out := mustRun(t, "-C", dst, "import", file)
	assert.Contains(t, out, "Imported 2 transactions (0 skipped)")

	out = mustRun(t, "-C", dst, "export")
	assert.Contains(t, out, ",fee,0.004,expense\n")
	assert.Contains(t, out, ",fx,1.005,expense\n")
}

func TestImport_SkipsInvalidRows(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	out, stderr, err := runTallyInput(t, "", "-C", dir, "import", "../importer/testdata/tally_export.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 transactions (1 skipped)")
	assert.Contains(t, out, "Balance: $600.00")
	assert.Contains(t, stderr, "skipping row")
}

func TestImport_Chase(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	out := mustRun(t, "-C", dir, "import", "--format", "chase", "../importer/testdata/chase_checking.csv")
	assert.Contains(t, out, "Imported 6 transactions (0 skipped)")
	assert.Contains(t, out, "Balance: $3,384.18")

	out = mustRun(t, "-C", dir, "list")
	assert.Contains(t, out, "ACME CONSULTING INVOICE 1042")
	assert.Contains(t, out, "-$23.17")
	assert.NotContains(t, out, "ZERO DOLLAR AUTH HOLD")
}

func TestImport_Errors(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	_, err := runTally(t, "-C", dir, "import", "--format", "ofx", "../importer/testdata/chase_checking.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown import format "ofx"`)

	_, err = runTally(t, "-C", dir, "import", filepath.Join(dir, "missing.csv"))
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "data", "transactions.json"))
	assert.True(t, os.IsNotExist(statErr), "failed import must not touch the ledger")
}

func TestLog(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	out := mustRun(t, "-C", dir, "log")
	assert.Equal(t, "No activity.\n", out)

	txID := addedID(t, mustRun(t, "-C", dir, "add", "income", "1000", "Salary"))
	mustRun(t, "-C", dir, "edit", txID, "--amount", "1100")
	mustRun(t, "-C", dir, "delete", txID)

	out = mustRun(t, "-C", dir, "log")
	assert.Contains(t, out, "added")
	assert.Contains(t, out, "updated")
	assert.Contains(t, out, "deleted")
	assert.Contains(t, out, txID)
	assert.Contains(t, out, "+$1,100.00")

	out = mustRun(t, "-C", dir, "log", "-n", "1")
	assert.Contains(t, out, "deleted")
	assert.NotContains(t, out, "added")
}
