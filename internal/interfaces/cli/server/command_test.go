package server

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMapEnvToGinMode(t *testing.T) {
	tests := map[string]string{
		"production":  gin.ReleaseMode,
		"prod":        gin.ReleaseMode,
		"release":     gin.ReleaseMode,
		"test":        gin.TestMode,
		"testing":     gin.TestMode,
		"development": gin.DebugMode,
		"":            gin.DebugMode,
		"staging":     gin.DebugMode,
	}
	for env, want := range tests {
		assert.Equal(t, want, mapEnvToGinMode(env), env)
	}
}

func TestNewCommand_Flags(t *testing.T) {
	path := "configs/config.yaml"
	cmd := NewCommand(&path)

	assert.Equal(t, "server", cmd.Use)
	for _, name := range []string{"env", "auto-migrate", "skip-migration-check"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "development", cmd.Flags().Lookup("env").DefValue)
}
