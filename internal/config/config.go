package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"AlignmentScorer/internal/scoring"
)

const (
	configPathEnv     = "ALIGNMENT_SCORER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	natsURLEnv        = "NATS_URL"
	logLevelEnv       = "LOG_LEVEL"

	defaultDebounce = 500 * time.Millisecond
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Inputs        InputsConfig       `yaml:"inputs"`
	Scoring       ScoringConfig      `yaml:"scoring"`
	Quality       QualityConfig      `yaml:"quality"`
	Output        OutputConfig       `yaml:"output"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
	Watch         WatchConfig        `yaml:"watch"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// InputsConfig points at the five input tables.
type InputsConfig struct {
	Alignment string        `yaml:"alignment"`
	Species1  SpeciesConfig `yaml:"species1"`
	Species2  SpeciesConfig `yaml:"species2"`
}

// SpeciesConfig describes the mapping and annotation sources of one species.
type SpeciesConfig struct {
	Name       string           `yaml:"name"`
	Mapping    MappingConfig    `yaml:"mapping"`
	Annotation AnnotationConfig `yaml:"annotation"`
}

// MappingConfig selects the two columns of an identifier table. From and To
// accept a header name or a zero-based column index.
type MappingConfig struct {
	Path      string `yaml:"path"`
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	Delimiter string `yaml:"delimiter"`
	NoHeader  bool   `yaml:"noHeader"`
}

// AnnotationConfig lists annotation files (doublestar patterns) and their format.
type AnnotationConfig struct {
	Paths   []string          `yaml:"paths"`
	Format  string            `yaml:"format"`
	Options map[string]string `yaml:"options"`
}

// ScoringConfig tunes the pair scorer.
type ScoringConfig struct {
	Metric  string `yaml:"metric"`
	Workers int    `yaml:"workers"`
}

// QualityConfig holds the verdict thresholds.
type QualityConfig struct {
	SimilarityThreshold  float64 `yaml:"similarityThreshold"`
	CoverageThreshold    float64 `yaml:"coverageThreshold"`
	HighQualityThreshold float64 `yaml:"highQualityThreshold"`
}

// Policy converts the thresholds for the scoring package.
func (q QualityConfig) Policy() scoring.Policy {
	return scoring.Policy{
		SimilarityThreshold:  q.SimilarityThreshold,
		CoverageThreshold:    q.CoverageThreshold,
		HighQualityThreshold: q.HighQualityThreshold,
	}
}

// OutputConfig lists optional artefacts. An empty ReportPath writes the text
// report to stdout.
type OutputConfig struct {
	ReportPath      string `yaml:"reportPath"`
	HTMLPath        string `yaml:"htmlPath"`
	PairsPath       string `yaml:"pairsPath"`
	MetricsTextfile string `yaml:"metricsTextfile"`
}

// DatabaseConfig describes Postgres connection details. Empty DSN disables persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
	NATS     NATSConfig     `yaml:"nats"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// NATSConfig names the server and subject run summaries are published to.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// WatchConfig configures re-scoring on input changes.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// Delay parses Debounce, falling back to 500ms.
func (w WatchConfig) Delay() time.Duration {
	if w.Debounce == "" {
		return defaultDebounce
	}
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return defaultDebounce
	}
	return d
}

// Load reads YAML configuration (if present) over the defaults and applies
// environment overrides. An explicit path that cannot be read is an error;
// with no path the ALIGNMENT_SCORER_CONFIG variable is consulted.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Validate reports settings that would make a run meaningless.
func (c Config) Validate() error {
	var errs []error
	if _, err := scoring.ParseMetric(c.Scoring.Metric); err != nil {
		errs = append(errs, err)
	}
	if c.Scoring.Workers < 0 {
		errs = append(errs, fmt.Errorf("scoring workers must not be negative"))
	}
	if err := c.Quality.Policy().Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.Inputs.Alignment) == "" {
		errs = append(errs, fmt.Errorf("inputs.alignment is required"))
	}
	for i, sp := range []SpeciesConfig{c.Inputs.Species1, c.Inputs.Species2} {
		if sp.Mapping.Path == "" {
			errs = append(errs, fmt.Errorf("inputs.species%d.mapping.path is required", i+1))
		}
		if len(sp.Annotation.Paths) == 0 {
			errs = append(errs, fmt.Errorf("inputs.species%d.annotation.paths is required", i+1))
		}
	}
	if (c.Notifications.Telegram.BotToken == "") != (c.Notifications.Telegram.ChatID == "") {
		errs = append(errs, fmt.Errorf("telegram needs both botToken and chatId"))
	}
	return errors.Join(errs...)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(natsURLEnv); v != "" {
		c.Notifications.NATS.URL = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Inputs: InputsConfig{
			Species1: defaultSpecies("species1"),
			Species2: defaultSpecies("species2"),
		},
		Scoring: ScoringConfig{Metric: string(scoring.MetricJaccard), Workers: 1},
		Quality: QualityConfig{
			SimilarityThreshold:  0.5,
			CoverageThreshold:    0.5,
			HighQualityThreshold: 0.5,
		},
		Notifications: NotificationConfig{
			NATS: NATSConfig{Subject: "alignment.runs"},
		},
		Watch: WatchConfig{Debounce: defaultDebounce.String()},
	}
}

func defaultSpecies(name string) SpeciesConfig {
	return SpeciesConfig{
		Name:       name,
		Mapping:    MappingConfig{From: "0", To: "1"},
		Annotation: AnnotationConfig{Format: "gaf"},
	}
}
