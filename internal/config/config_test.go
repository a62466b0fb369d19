package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "Asia/Tokyo", cfg.Schedule.Timezone)
	assert.Equal(t, 20, cfg.DM.MessagePageSize)
	// dev env fills a placeholder secret
	assert.NotEmpty(t, cfg.JWT.Secret)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", `
env: production
server:
  port: 9000
  shutdown_timeout: 3s
jwt:
  secret: from-file
schedule:
  privileged_groups: [1, 2]
dm:
  message_page_size: 50
`)
	t.Setenv("EVENTHUB_SERVER_PORT", "9100")
	t.Setenv("EVENTHUB_SCHEDULE_PRIVILEGED_GROUPS", "3,4,5")

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, []uint64{3, 4, 5}, cfg.Schedule.PrivilegedGroups)
	assert.Equal(t, 50, cfg.DM.MessagePageSize)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.yaml", "env: production\n")

	_, err := Load(p)
	assert.Error(t, err)
}

func TestValidate_RejectsUnknownNotifyTransport(t *testing.T) {
	cfg := Default()
	cfg.Notify.Transport = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsBadTimezone(t *testing.T) {
	cfg := Default()
	cfg.Schedule.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}

func TestLoadDotEnvFrom(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, ".env", "EVENTHUB_TEST_DOTENV=yes\n")
	t.Cleanup(func() { os.Unsetenv("EVENTHUB_TEST_DOTENV") })

	loaded := loadDotEnvFrom(filepath.Join(dir, ".env.local"), p)

	assert.Equal(t, []string{p}, loaded)
	assert.Equal(t, "yes", os.Getenv("EVENTHUB_TEST_DOTENV"))
}
