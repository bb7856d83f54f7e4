package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	MediaPath    string `koanf:"media_path"`    // root of the managed music folder
	DatabasePath string `koanf:"database_path"` // empty means the default XDG data location

	// Library management behavior
	ManageFolders     bool `koanf:"manage_folders"`       // copy imports into media_path/Artist/Album/
	AllowDeleteFromDB bool `koanf:"allow_delete_from_db"` // allow DeleteByID to remove catalog rows
	AllowDeleteFiles  bool `koanf:"allow_delete_files"`   // allow DeleteByID to also remove files on disk

	Volume int `koanf:"volume"` // startup volume when no session snapshot exists
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Volume: 100,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.MediaPath == "" {
		cfg.MediaPath = xdg.UserDirs.Music
	}
	cfg.MediaPath = expandPath(cfg.MediaPath)

	if cfg.DatabasePath != "" {
		cfg.DatabasePath = expandPath(cfg.DatabasePath)
	}

	if cfg.Volume < 0 || cfg.Volume > 100 {
		cfg.Volume = 100
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/aria/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "aria", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
