package configs

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// เคลียร์ env กัน shell ที่รันเทสมี PORT/DB_SOURCE ติดมา
	// (t.Setenv จด cleanup ไว้ก่อน แล้วค่อย unset จริง)
	for _, k := range []string{"PORT", "DB_SOURCE", "POLL_INTERVAL_SECONDS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := LoadConfig()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "pos.db", cfg.DBSource)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_SOURCE", "cafe.db")
	t.Setenv("POLL_INTERVAL_SECONDS", "2")

	cfg := LoadConfig()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "cafe.db", cfg.DBSource)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
}
