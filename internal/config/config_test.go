package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.yaml")

	cfg := Default("books.db")
	cfg.Ledger.ReceivableRoot = "a0000000000000000000000000000001"
	cfg.Ledger.PayableRoot = "a0000000000000000000000000000002"
	cfg.Ledger.COGSAccounts["USD"] = "a0000000000000000000000000000003"
	cfg.Ledger.AdjustmentAccount = "a0000000000000000000000000000004"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, "sqlite", loaded.Database.Driver)
	assert.Equal(t, "a0000000000000000000000000000003", loaded.Ledger.COGSAccounts["USD"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
