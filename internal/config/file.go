package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"twentyone/internal/game"
)

// File is the command-line configuration stored as TOML.
type File struct {
	Variant      string `toml:"variant"`
	TargetScore  int    `toml:"target_score,omitempty"`
	DealerStop   int    `toml:"dealer_stop,omitempty"`
	DatabasePath string `toml:"database_path"`
	PlayerName   string `toml:"player_name"`
}

func DefaultFile() *File {
	return &File{
		Variant:      "21",
		DatabasePath: filepath.Join(GetXDGDataHome(), "twentyone", "twentyone.db"),
	}
}

// Rules resolves the configured variant, letting explicit scores override it.
func (f *File) Rules() (game.Rules, error) {
	rules := game.Classic
	if f.Variant != "" {
		preset, ok := game.Variants[f.Variant]
		if !ok {
			return game.Rules{}, fmt.Errorf("%w: unknown variant %q", game.ErrInvalidConfiguration, f.Variant)
		}
		rules = preset
	}

	if f.TargetScore != 0 {
		rules.TargetScore = f.TargetScore
	}
	if f.DealerStop != 0 {
		rules.DealerStop = f.DealerStop
	}

	if err := rules.Validate(); err != nil {
		return game.Rules{}, err
	}
	return rules, nil
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "twentyone", "config.toml")
}

// LoadFile reads the config at path, writing defaults first if it is missing.
func LoadFile(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefaultFile(path)
	}

	cfg := DefaultFile()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	return cfg, nil
}

func SaveFile(path string, cfg *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func createDefaultFile(path string) (*File, error) {
	cfg := DefaultFile()
	if err := SaveFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
