package config

import (
	"os"
	"path/filepath"

	"github.com/pders01/prlink/internal/models"
	"github.com/spf13/viper"
)

// AppName is used for the config directory and environment prefix
const AppName = "prlink"

// SetDefaults registers the default value of every config key
func SetDefaults() {
	viper.SetDefault("store.path", filepath.Join(Dir(), "store"))
	viper.SetDefault("defaults.base_branch", "main")
	viper.SetDefault("defaults.mode", string(models.DefaultMode))
	viper.SetDefault("defaults.remote", "origin")
	viper.SetDefault("server.addr", "127.0.0.1:8080")
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("ambient", "auto")
}

// Dir returns the config directory ($HOME/.config/prlink)
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+AppName)
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the default config file path
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// GetStorePath returns the preference store directory
func GetStorePath() string {
	return viper.GetString("store.path")
}

// GetDefaultBaseBranch returns the base branch used when none is given
// and none can be inferred
func GetDefaultBaseBranch() string {
	return viper.GetString("defaults.base_branch")
}

// GetDefaultMode returns the configured starting mode
func GetDefaultMode() (models.Mode, error) {
	return models.ParseMode(viper.GetString("defaults.mode"))
}

// GetRemote returns the git remote used to infer org and repo
func GetRemote() string {
	return viper.GetString("defaults.remote")
}

// GetServerAddr returns the listen address of the web form
func GetServerAddr() string {
	return viper.GetString("server.addr")
}

// GetLogLevel returns the configured log level name
func GetLogLevel() string {
	return viper.GetString("log.level")
}

// GetAmbient returns the ambient color scheme override (auto, dark, light)
func GetAmbient() string {
	return viper.GetString("ambient")
}

// File is the on-disk layout written by `prlink init`
type File struct {
	Store    StoreSection    `toml:"store"`
	Defaults DefaultsSection `toml:"defaults"`
	Server   ServerSection   `toml:"server"`
	Log      LogSection      `toml:"log"`
	Ambient  string          `toml:"ambient"`
}

type StoreSection struct {
	Path string `toml:"path"`
}

type DefaultsSection struct {
	BaseBranch string `toml:"base_branch"`
	Mode       string `toml:"mode"`
	Remote     string `toml:"remote"`
}

type ServerSection struct {
	Addr string `toml:"addr"`
}

type LogSection struct {
	Level string `toml:"level"`
}

// Current snapshots the effective configuration
func Current() File {
	return File{
		Store:    StoreSection{Path: GetStorePath()},
		Defaults: DefaultsSection{
			BaseBranch: GetDefaultBaseBranch(),
			Mode:       viper.GetString("defaults.mode"),
			Remote:     GetRemote(),
		},
		Server:  ServerSection{Addr: GetServerAddr()},
		Log:     LogSection{Level: GetLogLevel()},
		Ambient: GetAmbient(),
	}
}
