package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/config"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	app := initApp()
	return app.cliCmd.Run(context.Background(), append([]string{"mintd"}, args...))
}

func TestInitThenLoadLists(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, run(t, "--datadir", dir, "init"))
	assert.FileExists(t, config.ConfigPath(dir))
	assert.FileExists(t, filepath.Join(dir, config.SaleFileName))

	cfg, err := config.LoadConfig(config.ConfigPath(dir))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)

	lists := filepath.Join(dir, "lists.yaml")
	require.NoError(t, os.WriteFile(lists, []byte("tier_a: [alice.near, bob.near]\n"), 0600))
	require.NoError(t, run(t, "--datadir", dir, "lists", "load", "--yes", lists))

	sale, err := config.LoadSale(cfg.SalePath())
	require.NoError(t, err)
	engine, st, err := App.openEngine(sale)
	require.NoError(t, err)
	defer st.Close()
	l, err := engine.List(allowlist.TierA)
	require.NoError(t, err)
	assert.Equal(t, allowlist.List{"alice.near", "bob.near"}, l)
}

func TestRejectsUnknownNetwork(t *testing.T) {
	err := run(t, "--datadir", t.TempDir(), "--network", "devnet", "status")
	assert.ErrorIs(t, err, config.ErrInvalidNetwork)
}

func TestAuthTokenRequiresSecret(t *testing.T) {
	t.Setenv(EnvJWTSecret, "short")
	err := run(t, "--datadir", t.TempDir(), "auth", "token", "alice.near")
	assert.Error(t, err)
}
