package config

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	Path    = "appgate.yml"
	EnvFile = ".env"

	envPrefix = "APPGATE_"
)

type (
	Config struct {
		// LogMode selects the zap encoder: JSON for production, console otherwise.
		LogMode string `yaml:"log_mode" validate:"oneof=development production"`

		// LogFile receives every log entry so the interactive menu is not interleaved with logs.
		LogFile string `yaml:"log_file"`

		HistoryLimit int `yaml:"history_limit" validate:"gte=1,lte=10000"`

		Audit AuditConfig `yaml:"audit"`
		Scan  ScanConfig  `yaml:"scan"`
	}

	AuditConfig struct {
		Enabled  bool   `yaml:"enabled"`
		Database string `yaml:"database" validate:"required_if=Enabled true"`
	}

	// ScanConfig toggles the installed-application sources. Empty Roots means
	// the platform default directories.
	ScanConfig struct {
		Registry   bool     `yaml:"registry"`
		UWP        bool     `yaml:"uwp"`
		Filesystem bool     `yaml:"filesystem"`
		Processes  bool     `yaml:"processes"`
		Roots      []string `yaml:"roots"`
	}

	lookupFunc func(key string) (string, bool)
)

func Default() Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = cacheDir
	}

	return Config{
		LogMode:      "production",
		LogFile:      filepath.Join(cacheDir, "appgate", "appgate.log"),
		HistoryLimit: 50,
		Audit: AuditConfig{
			Enabled:  true,
			Database: filepath.Join(configDir, "appgate", "audit.db"),
		},
		Scan: ScanConfig{
			Registry:   true,
			UWP:        true,
			Filesystem: true,
			Processes:  true,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path, a .env
// file in the working directory and APPGATE_* variables, in that order. When
// path is empty APPGATE_CONFIG is consulted, then appgate.yml; neither is
// required to exist.
func Load(path string) (Config, error) {
	return load(path, EnvFile, os.LookupEnv)
}

func load(path, envFile string, lookupEnv lookupFunc) (Config, error) {
	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	cfg := Default()

	optional := false
	if path == "" {
		path, _ = lookup(envPrefix + "CONFIG")
	}
	if path == "" {
		path, optional = Path, true
	}
	if err := readFile(path, optional, &cfg); err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}

	mValidator := validator.New(validator.WithRequiredStructEnabled())
	if err := mValidator.Struct(cfg); err != nil {
		var vError validator.ValidationErrors
		if errors.As(err, &vError) && len(vError) > 0 {
			return Config{}, fmt.Errorf("invalid configuration value for %s", vError[0].Namespace())
		}
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, optional bool, cfg *Config) error {
	value, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}

	if err = yaml.Unmarshal(value, cfg); err != nil {
		return errors.Wrap(err, "failed to parse config file")
	}
	return nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read env file")
	}
	return values, nil
}

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(envPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("LOG_MODE", &cfg.LogMode)
	str("LOG_FILE", &cfg.LogFile)
	str("AUDIT_DATABASE", &cfg.Audit.Database)

	for key, dst := range map[string]*bool{
		"AUDIT_ENABLED":   &cfg.Audit.Enabled,
		"SCAN_REGISTRY":   &cfg.Scan.Registry,
		"SCAN_UWP":        &cfg.Scan.UWP,
		"SCAN_FILESYSTEM": &cfg.Scan.Filesystem,
		"SCAN_PROCESSES":  &cfg.Scan.Processes,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(envPrefix + "SCAN_ROOTS"); ok {
		cfg.Scan.Roots = filepath.SplitList(v)
	}
	if v, ok := lookup(envPrefix + "HISTORY_LIMIT"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sHISTORY_LIMIT: %w", envPrefix, err)
		}
		cfg.HistoryLimit = n
	}
	return nil
}
