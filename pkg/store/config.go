package store

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config describes where dashboards live and how the TUI connects.
type Config interface {
	BasePath() string
	HivePath() string
	User() string
	Database() string
	Editable() bool
	Fullscreen() bool
}

// LoadConfig reads .neodash.yaml from $NEODASH_CONFIG_PATH or the working
// directory, with NEODASH_* environment overrides.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.neodash")
	v.SetDefault("hive.path", "~/.neodash-hive")
	v.SetDefault("user", os.Getenv("USER"))
	v.SetDefault("database", "neo4j")
	v.SetDefault("editable", true)
	v.SetDefault("fullscreen", true)
	v.SetConfigName(".neodash") // .yaml is implicit
	v.SetEnvPrefix("NEODASH")
	v.AutomaticEnv()
	// hive.path maps to NEODASH_HIVE_PATH.
	_ = v.BindEnv("hive.path", "NEODASH_HIVE_PATH")

	if override := os.Getenv("NEODASH_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	base, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	hive, err := homedir.Expand(v.GetString("hive.path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand hive path: %w", err)
	}

	return &fileConfig{
		Path:         base,
		Hive:         hive,
		Username:     v.GetString("user"),
		DatabaseName: v.GetString("database"),
		CanEdit:      v.GetBool("editable"),
		AllowFull:    v.GetBool("fullscreen"),
	}, nil
}

type fileConfig struct {
	Path         string `json:"path"`
	Hive         string `json:"hivePath"`
	Username     string `json:"user"`
	DatabaseName string `json:"database"`
	CanEdit      bool   `json:"editable"`
	AllowFull    bool   `json:"fullscreen"`
}

func (f *fileConfig) BasePath() string { return f.Path }
func (f *fileConfig) HivePath() string { return f.Hive }
func (f *fileConfig) User() string     { return f.Username }
func (f *fileConfig) Database() string { return f.DatabaseName }
func (f *fileConfig) Editable() bool   { return f.CanEdit }
func (f *fileConfig) Fullscreen() bool { return f.AllowFull }

// StaticConfig is a Config with fixed values, used by tests and callers that
// already know their paths.
type StaticConfig struct {
	Path         string
	Hive         string
	Username     string
	DatabaseName string
	ReadOnly     bool
	NoFullscreen bool
}

func (s StaticConfig) BasePath() string { return s.Path }
func (s StaticConfig) HivePath() string { return s.Hive }
func (s StaticConfig) User() string     { return s.Username }
func (s StaticConfig) Database() string { return s.DatabaseName }
func (s StaticConfig) Editable() bool   { return !s.ReadOnly }
func (s StaticConfig) Fullscreen() bool { return !s.NoFullscreen }
