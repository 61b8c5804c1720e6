package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"settlement-server"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadDefaults(t *testing.T) {
	withArgs(t)
	cfg := LoadConfig()
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 24*time.Hour, cfg.TokenValidity)
	require.Empty(t, cfg.DatabaseDSN)
	require.Empty(t, cfg.AccessKeyHash)
}

func TestFlagsOverrideDefaults(t *testing.T) {
	withArgs(t, "-a", ":9090", "-d", "postgres://localhost/settlement")
	cfg := LoadConfig()
	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, "postgres://localhost/settlement", cfg.DatabaseDSN)
}

func TestJSONOverlayAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"addr": ":7070",
		"access_key_hash": "$2a$10$abc",
		"token_validity": "1h"
	}`), 0o600))

	withArgs(t, "-c", path, "-a", ":6060")
	cfg := LoadConfig()

	// flags beat JSON, JSON beats defaults
	require.Equal(t, ":6060", cfg.Addr)
	require.Equal(t, "$2a$10$abc", cfg.AccessKeyHash)
	require.Equal(t, time.Hour, cfg.TokenValidity)
}
