package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DirName         = ".studysprint"
	FileName        = "config.yaml"
	DefaultHTTP     = "127.0.0.1:8787"
	DefaultLogLevel = "info"
)

// FileConfig models the optional <data-dir>/config.yaml.
type FileConfig struct {
	LogLevel string `yaml:"log_level"`
	HTTPAddr string `yaml:"http_addr"`
	NotesDir string `yaml:"notes_dir"`
}

type Config struct {
	DataDir   string
	StatePath string
	DBPath    string
	LogPath   string
	NotesDir  string
	LogLevel  string
	HTTPAddr  string
}

// DefaultDataDir resolves ~/.studysprint, falling back to the working directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DirName
	}
	return filepath.Join(home, DirName)
}

func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	file, err := loadFile(filepath.Join(dataDir, FileName))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		DataDir:   dataDir,
		StatePath: filepath.Join(dataDir, "state.json"),
		DBPath:    filepath.Join(dataDir, "stats.db"),
		LogPath:   filepath.Join(dataDir, "logs", "studysprint.log"),
		NotesDir:  filepath.Join(dataDir, "notes"),
		LogLevel:  DefaultLogLevel,
		HTTPAddr:  DefaultHTTP,
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.HTTPAddr != "" {
		cfg.HTTPAddr = file.HTTPAddr
	}
	if file.NotesDir != "" {
		cfg.NotesDir = file.NotesDir
		if !filepath.IsAbs(cfg.NotesDir) {
			cfg.NotesDir = filepath.Join(dataDir, cfg.NotesDir)
		}
	}
	return cfg, nil
}

func loadFile(path string) (FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("read config: %w", err)
	}
	var file FileConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return FileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return file, nil
}
