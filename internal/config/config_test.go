package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_defaults(t *testing.T) {
	c, err := FromViper(New())
	require.NoError(t, err)

	assert.Equal(t, "DEV", c.Env)
	assert.Equal(t, "StudyBoard", c.AppName)
	assert.Equal(t, float32(1024), c.Window.Width)
	assert.Equal(t, float32(768), c.Window.Height)
	assert.Equal(t, "#FFFFFF", c.Board.Color)
	assert.Equal(t, float32(5), c.Board.Width)
	assert.Equal(t, float32(1), c.Board.Opacity)
	assert.Equal(t, 0, c.Board.HistoryLimit)
	assert.Equal(t, 8888, c.Share.Port)
	assert.True(t, c.Share.Enabled)
	assert.Empty(t, c.Rollbar.Token)
}

func TestFromViper_env(t *testing.T) {
	t.Setenv("STUDYBOARD_SHARE_PORT", "9100")
	t.Setenv("STUDYBOARD_BOARD_COLOR", "#3B82F6")
	t.Setenv("STUDYBOARD_BOARD_HISTORYLIMIT", "50")

	c, err := FromViper(New())
	require.NoError(t, err)
	assert.Equal(t, 9100, c.Share.Port)
	assert.Equal(t, "#3B82F6", c.Board.Color)
	assert.Equal(t, 50, c.Board.HistoryLimit)
}

func TestFromViper_invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   interface{}
		wantErr error
	}{
		{name: "window", key: "window.width", value: 0, wantErr: errWindowSize},
		{name: "port", key: "share.port", value: 70000, wantErr: errPort},
		{name: "history", key: "board.historyLimit", value: -1, wantErr: errHistory},
		{name: "scale", key: "board.scale", value: -2.0, wantErr: errScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Set(tt.key, tt.value)
			_, err := FromViper(v)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestLoad_dotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STUDYBOARD_ENV", "test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"),
		[]byte("STUDYBOARD_BOARD_WIDTH=12\nSTUDYBOARD_EXPORT_DIR=/tmp/boards\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("STUDYBOARD_BOARD_WIDTH")
		os.Unsetenv("STUDYBOARD_EXPORT_DIR")
	})

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "TEST", c.Env)
	assert.Equal(t, float32(12), c.Board.Width)
	assert.Equal(t, "/tmp/boards", c.Export.Dir)
}

func TestLoad_missingDotEnv(t *testing.T) {
	t.Setenv("STUDYBOARD_ENV", "")
	c, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "DEV", c.Env)
}
