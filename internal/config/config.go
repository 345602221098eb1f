package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/costwatch/internal/detect"
)

//go:embed schema.cue
var schemaCUE string

// DefaultPath is read when no explicit config path is given and it exists.
const DefaultPath = "costwatch.yaml"

// EnvDBPath overrides database.path when set.
const EnvDBPath = "COSTWATCH_DB_PATH"

// DefaultDBPath is the database location when nothing else is configured.
const DefaultDBPath = "./data/costs.db"

// Config is the full set of costwatch settings.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Anomaly  AnomalyConfig  `yaml:"anomaly"`
}

// DatabaseConfig locates the cost store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AnomalyConfig holds detection defaults. CLI flags override them.
type AnomalyConfig struct {
	RollingWindowDays int     `yaml:"rolling_window_days"`
	Sensitivity       string  `yaml:"sensitivity"`
	MinDailyCost      float64 `yaml:"min_daily_cost"`
	DriftThresholdPct float64 `yaml:"drift_threshold_pct"`

	// Workers bounds the detection worker pool. 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Path: DefaultDBPath},
		Anomaly: AnomalyConfig{
			RollingWindowDays: detect.DefaultWindowDays,
			Sensitivity:       detect.DefaultSensitivity,
			MinDailyCost:      detect.DefaultMinDailyCost,
			DriftThresholdPct: detect.DefaultDriftThresholdPct,
		},
	}
}

// Error reports a config file that could not be read or failed validation.
type Error struct {
	Path    string // config file, empty for in-memory input
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is or wraps a *Error.
func IsConfigError(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr)
}

// Load reads settings from path and applies environment overrides.
//
// An empty path falls back to DefaultPath when that file exists and to
// Default() otherwise. An explicit path must exist.
func Load(path string) (Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultPath); err != nil {
			return applyEnv(Default()), nil
		}
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &Error{Path: path, Message: "read config", Err: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		var cfgErr *Error
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
		}
		return Config{}, err
	}
	return applyEnv(cfg), nil
}

// Parse validates YAML data against the schema and decodes it over Default().
func Parse(data []byte) (Config, error) {
	if err := validate(data); err != nil {
		return Config{}, err
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &Error{Message: "decode config", Err: err}
	}
	return cfg, nil
}

// validate checks raw YAML against #Config in schema.cue.
func validate(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return &Error{Message: "parse YAML", Err: err}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &Error{Message: "compile schema", Err: err}
	}

	value := ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return &Error{Message: "encode config", Err: err}
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &Error{Message: "invalid config", Err: err}
	}
	return nil
}

func applyEnv(cfg Config) Config {
	if v, ok := os.LookupEnv(EnvDBPath); ok && v != "" {
		cfg.Database.Path = v
	}
	return cfg
}
