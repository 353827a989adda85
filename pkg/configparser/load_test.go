package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Database struct {
		Host string `env:"FFTEST_DATABASE_HOST,default=localhost"`
		Port int    `env:"FFTEST_DATABASE_PORT,default=5432"`
	}
	Auth struct {
		TTL time.Duration `env:"FFTEST_AUTH_TTL,default=15m"`
	}
	Name string `env:"FFTEST_NAME"`
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadYamlFile_FlattensNestedKeys(t *testing.T) {
	t.Setenv("FFTEST_DATABASE_HOST", "")
	t.Setenv("FFTEST_DATABASE_PORT", "")

	path := writeFile(t, "config.yaml", `
fftest:
  database:
    host: db.internal
    port: 6543
`)

	require.NoError(t, LoadYamlFile(path))
	assert.Equal(t, "db.internal", os.Getenv("FFTEST_DATABASE_HOST"))
	assert.Equal(t, "6543", os.Getenv("FFTEST_DATABASE_PORT"))
}

func TestLoadYamlFile_EnvironmentWins(t *testing.T) {
	t.Setenv("FFTEST_NAME", "from-env")

	path := writeFile(t, "config.yaml", "fftest:\n  name: from-file\n")

	require.NoError(t, LoadYamlFile(path))
	assert.Equal(t, "from-env", os.Getenv("FFTEST_NAME"))
}

func TestLoadYamlFile_DefaultSubstitution(t *testing.T) {
	t.Setenv("FFTEST_NAME", "")
	t.Setenv("FFTEST_UNSET_SOURCE", "")

	path := writeFile(t, "config.yaml", "fftest:\n  name: ${FFTEST_UNSET_SOURCE:-fallback}\n")

	require.NoError(t, LoadYamlFile(path))
	assert.Equal(t, "fallback", os.Getenv("FFTEST_NAME"))
}

func TestLoadYamlFile_Errors(t *testing.T) {
	assert.ErrorIs(t, LoadYamlFile(""), ErrNoFilePath)
	assert.Error(t, LoadYamlFile(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := writeFile(t, "bad.yaml", "fftest: [unterminated\n")
	assert.Error(t, LoadYamlFile(bad))
}

func TestLoadAndParseYaml_DecodesWithDefaults(t *testing.T) {
	t.Setenv("FFTEST_DATABASE_HOST", "")
	t.Setenv("FFTEST_DATABASE_PORT", "")
	t.Setenv("FFTEST_AUTH_TTL", "")
	t.Setenv("FFTEST_NAME", "")

	path := writeFile(t, "config.yaml", "fftest:\n  database:\n    port: 7000\n  name: fares\n")

	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(path, &cfg))

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 7000, cfg.Database.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TTL)
	assert.Equal(t, "fares", cfg.Name)
}

func TestLoadAndParseYaml_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("FFTEST_DATABASE_HOST", "")

	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(filepath.Join(t.TempDir(), "absent.yaml"), &cfg))
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("FFTEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("FFTEST_DOTENV"))

	path := writeFile(t, ".env", "FFTEST_DOTENV=loaded\n")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("FFTEST_DOTENV"))

	assert.ErrorIs(t, LoadDotEnv(""), ErrNoFilePath)
}
