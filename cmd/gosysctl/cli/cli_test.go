package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobware/go-sysctl/logging"
)

func writeLoggingConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gosysctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

// TestLogger_ConfigLevelTakesEffect verifies that:
//
//	Given a config file setting the log level and no flag or
//	environment override,
//	When the command logger is built,
//	Then the config file's level is in effect.
func TestLogger_ConfigLevelTakesEffect(t *testing.T) {
	t.Setenv(logging.EnvVar, "")
	c := &CLI{Config: writeLoggingConfig(t, `
[logging]
level = "debug"
`)}

	logger, err := c.Logger()
	require.NoError(t, err)
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

// TestLogger_FlagWinsOverConfig verifies that:
//
//	Given both a --log flag and a config file level,
//	When the command logger is built,
//	Then the flag wins.
func TestLogger_FlagWinsOverConfig(t *testing.T) {
	t.Setenv(logging.EnvVar, "")
	c := &CLI{
		Config: writeLoggingConfig(t, `
[logging]
level = "debug"
`),
		Log: "error",
	}

	logger, err := c.Logger()
	require.NoError(t, err)
	ctx := context.Background()
	assert.False(t, logger.Handler().Enabled(ctx, slog.LevelDebug))
	assert.True(t, logger.Handler().Enabled(ctx, slog.LevelError))
}

func TestLogger_EnvWinsOverConfig(t *testing.T) {
	t.Setenv(logging.EnvVar, "error")
	c := &CLI{Config: writeLoggingConfig(t, `
[logging]
level = "debug"
`)}

	logger, err := c.Logger()
	require.NoError(t, err)
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestLogger_MissingConfig_UsesEmbeddedDefault(t *testing.T) {
	t.Setenv(logging.EnvVar, "")
	c := &CLI{Config: filepath.Join(t.TempDir(), "nope.toml")}

	logger, err := c.Logger()
	require.NoError(t, err)
	ctx := context.Background()
	// The embedded defaults set info.
	assert.True(t, logger.Handler().Enabled(ctx, slog.LevelInfo))
	assert.False(t, logger.Handler().Enabled(ctx, slog.LevelDebug))
}
