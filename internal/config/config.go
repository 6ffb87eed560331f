package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Notes     NotesConfig     `yaml:"notes"`
	Reminders RemindersConfig `yaml:"reminders"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	Report    ReportConfig    `yaml:"report"`
	Log       LogConfig       `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type NotesConfig struct {
	Vault   string `yaml:"vault"`
	WatchFS bool   `yaml:"watch_fs"`
}

// RemindersConfig sets the polling intervals of the two reminder timers
type RemindersConfig struct {
	TaskInterval   time.Duration `yaml:"task_interval"`
	AgendaInterval time.Duration `yaml:"agenda_interval"`
}

type CalendarConfig struct {
	WeekStartsMonday bool `yaml:"week_starts_monday"`
}

// ReportConfig holds export defaults. PDFFont points at a TTF file used for
// non-Latin text; the built-in Helvetica is used when empty.
type ReportConfig struct {
	Dir     string `yaml:"dir"`
	PDFFont string `yaml:"pdf_font"`
}

type LogConfig struct {
	Path       string `yaml:"path"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the configuration used when no file exists.
// Paths are resolved under dataDir.
func Default(dataDir string) *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dataDir, "zt.db"),
		},
		Notes: NotesConfig{
			Vault:   filepath.Join(dataDir, "notes"),
			WatchFS: true,
		},
		Reminders: RemindersConfig{
			TaskInterval:   30 * time.Second,
			AgendaInterval: 15 * time.Second,
		},
		Calendar: CalendarConfig{
			WeekStartsMonday: true,
		},
		Report: ReportConfig{
			Dir: filepath.Join(dataDir, "reports"),
		},
		Log: LogConfig{
			Path:       filepath.Join(dataDir, "zt.log"),
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
	}
}

type Manager struct {
	config     *Config
	configPath string
}

// NewManager loads the config at path, writing defaults if it does not exist
func NewManager(path, dataDir string) (*Manager, error) {
	m := &Manager{configPath: path}

	err := m.load(dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		m.config = Default(dataDir)
		if err := m.Save(); err != nil {
			return nil, err
		}
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) load(dataDir string) error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	// unset keys keep their defaults
	cfg := Default(dataDir)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", m.configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", m.configPath, err)
	}

	m.config = cfg
	return nil
}

// Save writes the current config back to disk
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.config)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(m.configPath, data, 0644)
}

func (m *Manager) Config() *Config {
	return m.config
}

func (m *Manager) Path() string {
	return m.configPath
}

// Validate rejects values the application cannot run with
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database.path is empty")
	}
	if c.Notes.Vault == "" {
		return errors.New("notes.vault is empty")
	}
	if c.Reminders.TaskInterval < time.Second || c.Reminders.AgendaInterval < time.Second {
		return errors.New("reminder intervals must be at least 1s")
	}
	return nil
}

// DefaultPath returns the config file location under the XDG config directory
func DefaultPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "zt", "config.yaml"), nil
}
