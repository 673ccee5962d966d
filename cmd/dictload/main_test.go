package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dictload"
	"github.com/hupe1980/dictload/testutil"
)

func writeShards(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "dict")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, data := range testutil.Shards() {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".dat"), data, 0o600))
	}
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_DiskCache(t *testing.T) {
	root := writeShards(t)
	flags := []string{"--root", root, "--cache-dir", filepath.Join(t.TempDir(), "cache"), "--compression", "zstd"}

	out, err := run(t, append([]string{"status"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "0/12 shards cached")

	out, err = run(t, append([]string{"warm"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "loaded 12 shards")

	// The source is gone; status and warm are served from the cache.
	require.NoError(t, os.RemoveAll(filepath.Join(root, "dict")))

	out, err = run(t, append([]string{"status"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "12/12 shards cached")
	assert.Contains(t, out, "unk_compat")

	_, err = run(t, append([]string{"warm"}, flags...)...)
	require.NoError(t, err)

	out, err = run(t, append([]string{"clear"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "cache cleared")

	_, err = run(t, append([]string{"warm"}, flags...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load shard")
}

func TestCLI_SQLiteCache(t *testing.T) {
	root := writeShards(t)
	db := filepath.Join(t.TempDir(), "db", "shards.db")
	flags := []string{"--root", root, "--cache", "sqlite", "--cache-db", db, "--compression", "lz4"}

	_, err := run(t, append([]string{"warm"}, flags...)...)
	require.NoError(t, err)

	out, err := run(t, append([]string{"status"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "12/12 shards cached")

	_, err = run(t, append([]string{"clear"}, flags...)...)
	require.NoError(t, err)
	_, err = os.Stat(db)
	assert.True(t, os.IsNotExist(err))
}

func TestCLI_HTTPSource(t *testing.T) {
	root := writeShards(t)
	srv := httptest.NewServer(http.FileServer(http.Dir(root)))
	defer srv.Close()

	metrics := filepath.Join(t.TempDir(), "dictload.prom")
	out, err := run(t, "warm", "--source", "http", "--url", srv.URL, "--cache", "none", "--metrics-textfile", metrics)
	require.NoError(t, err)
	assert.Contains(t, out, "loaded 12 shards")

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dictload_load_duration_seconds")
	assert.Contains(t, string(data), `shard="cc"`)
}

func TestCLI_Env(t *testing.T) {
	root := writeShards(t)
	t.Setenv("DICTLOAD_ROOT", root)
	t.Setenv("DICTLOAD_CACHE", "none")

	_, err := run(t, "warm")
	require.NoError(t, err)

	_, err = run(t, "clear")
	assert.ErrorIs(t, err, dictload.ErrCacheDisabled)
}

func TestCLI_ConfigFile(t *testing.T) {
	root := writeShards(t)
	cfg := filepath.Join(t.TempDir(), "dictload.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("root: "+root+"\ncache: none\nbase: dict\n"), 0o600))

	out, err := run(t, "warm", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "from dict")
}

func TestCLI_InvalidFlags(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"warm", "--source", "ftp"}, "unknown source"},
		{[]string{"warm", "--source", "http"}, "--url is required"},
		{[]string{"warm", "--source", "s3"}, "--bucket is required"},
		{[]string{"warm", "--source", "minio", "--bucket", "b"}, "--endpoint are required"},
		{[]string{"warm", "--cache", "redis"}, "unknown cache"},
		{[]string{"warm", "--compression", "brotli"}, "unknown codec"},
		{[]string{"warm", "--log-level", "loud"}, "invalid log level"},
		{[]string{"warm", "--log-format", "xml"}, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dictload v"+version)
}
