// Package config loads StudyBoard settings from defaults, an optional
// .env file and STUDYBOARD_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "STUDYBOARD"

// Config holds every tunable of the application.
type Config struct {
	Env     string
	Debug   bool
	AppName string

	Window struct {
		Width  float32
		Height float32
	}

	Board struct {
		// Scale overrides the host pixel density when positive.
		Scale        float32
		HistoryLimit int
		Color        string
		Width        float32
		Opacity      float32
	}

	Share struct {
		Enabled   bool
		Port      int
		Advertise bool
	}

	Export struct {
		// Dir, when set, receives exports directly instead of a save dialog.
		Dir string
	}

	Rollbar struct {
		Token string
	}
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("env", "DEV")
	v.SetDefault("debug", false)
	v.SetDefault("appName", "StudyBoard")
	v.SetDefault("window.width", 1024)
	v.SetDefault("window.height", 768)
	v.SetDefault("board.scale", 0.0)
	v.SetDefault("board.historyLimit", 0)
	v.SetDefault("board.color", "#FFFFFF")
	v.SetDefault("board.width", 5.0)
	v.SetDefault("board.opacity", 1.0)
	v.SetDefault("share.enabled", true)
	v.SetDefault("share.port", 8888)
	v.SetDefault("share.advertise", true)
	v.SetDefault("export.dir", "")
	v.SetDefault("rollbar.token", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env.<env> from dir if present and returns the resulting
// configuration. A missing file is not an error.
func Load(dir string) (*Config, error) {
	env := strings.ToUpper(os.Getenv(envPrefix + "_ENV"))
	if env == "" {
		env = "DEV"
	}

	dotEnv := filepath.Join(dir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnv); err == nil {
		if err := godotenv.Load(dotEnv); err != nil {
			return nil, errors.Wrapf(err, "config: load %s", dotEnv)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "config: stat %s", dotEnv)
	}

	v := New()
	v.Set("env", env)
	return FromViper(v)
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{}
	c.Env = v.GetString("env")
	c.Debug = v.GetBool("debug")
	c.AppName = v.GetString("appName")
	c.Window.Width = float32(v.GetFloat64("window.width"))
	c.Window.Height = float32(v.GetFloat64("window.height"))
	c.Board.Scale = float32(v.GetFloat64("board.scale"))
	c.Board.HistoryLimit = v.GetInt("board.historyLimit")
	c.Board.Color = v.GetString("board.color")
	c.Board.Width = float32(v.GetFloat64("board.width"))
	c.Board.Opacity = float32(v.GetFloat64("board.opacity"))
	c.Share.Enabled = v.GetBool("share.enabled")
	c.Share.Port = v.GetInt("share.port")
	c.Share.Advertise = v.GetBool("share.advertise")
	c.Export.Dir = v.GetString("export.dir")
	c.Rollbar.Token = v.GetString("rollbar.token")

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var (
	errWindowSize = errors.New("config: window size must be positive")
	errPort       = errors.New("config: share port out of range")
	errHistory    = errors.New("config: history limit must not be negative")
	errScale      = errors.New("config: board scale must not be negative")
)

func (c *Config) validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errWindowSize
	case c.Share.Port <= 0 || c.Share.Port > 65535:
		return errPort
	case c.Board.HistoryLimit < 0:
		return errHistory
	case c.Board.Scale < 0:
		return errScale
	}
	return nil
}
