package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseURL string `json:"base_url"`
	Weeks   int    `json:"window_weeks"`
	Nested  struct {
		File string `json:"file"`
	} `json:"nested"`
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "config.json5")
	require.NoError(t, os.WriteFile(base, []byte(`{
		// comments are allowed
		base_url: "https://goteborg.se",
		window_weeks: 24,
		nested: { file: "gfa.db" },
	}`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		nested: { file: "local.db" },
	}`), 0600))

	cfg, err := ReadConfig[testConfig](base)
	require.NoError(t, err)
	require.Equal(t, "https://goteborg.se", cfg.BaseURL)
	require.Equal(t, 24, cfg.Weeks)
	require.Equal(t, "local.db", cfg.Nested.File)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOverrideFromEnv(t *testing.T) {
	value := "from-file"
	t.Setenv("GFA_TEST_OVERRIDE", "")
	OverrideFromEnv(&value, "GFA_TEST_OVERRIDE")
	require.Equal(t, "from-file", value)

	t.Setenv("GFA_TEST_OVERRIDE", "from-env")
	OverrideFromEnv(&value, "GFA_TEST_OVERRIDE")
	require.Equal(t, "from-env", value)
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GFA_TEST_DOTENV=hello\n"), 0600))
	t.Setenv("GFA_TEST_DOTENV", "")
	os.Unsetenv("GFA_TEST_DOTENV")

	require.NoError(t, LoadEnv(path))
	require.Equal(t, "hello", os.Getenv("GFA_TEST_DOTENV"))

	require.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestMerge(t *testing.T) {
	dst := testConfig{BaseURL: "https://goteborg.se", Weeks: 24}
	src := testConfig{Weeks: 12}
	src.Nested.File = "gfa.db"

	require.NoError(t, Merge(&dst, src))
	require.Equal(t, "https://goteborg.se", dst.BaseURL)
	require.Equal(t, 12, dst.Weeks)
	require.Equal(t, "gfa.db", dst.Nested.File)
}
