package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smarsx/larena/internal/units"
)

type Config struct {
	App        AppConfig              `yaml:"app"`
	Logging    LoggingConfig          `yaml:"logging"`
	Units      UnitsConfig            `yaml:"units"`
	CurvesFile string                 `yaml:"curves_file"`
	Curves     map[string]CurveConfig `yaml:"curves"`
	Schedule   ScheduleConfig         `yaml:"schedule"`
	Output     OutputConfig           `yaml:"output"`
	Storage    StorageConfig          `yaml:"storage"`
	Metrics    MetricsConfig          `yaml:"metrics"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

// UnitsConfig carries the fixed-point and time conventions of the callers.
type UnitsConfig struct {
	Decimals         int32 `yaml:"decimals"`
	SecondsPerPeriod int64 `yaml:"seconds_per_period"`
}

type RangeConfig struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Step  float64 `yaml:"step"`
}

// ScheduleConfig is the grid of (elapsed, sold) pairs priced by price-schedule.
type ScheduleConfig struct {
	Elapsed RangeConfig `yaml:"elapsed"`
	Sold    RangeConfig `yaml:"sold"`
	Workers int         `yaml:"workers"`
}

type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Compression string `yaml:"compression"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type MetricsConfig struct {
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`
	Dashboard string `yaml:"dashboard"`
}

// Scale returns the unit conventions as a units.Scale.
func (u UnitsConfig) Scale() units.Scale {
	return units.Scale{Decimals: u.Decimals, SecondsPerPeriod: u.SecondsPerPeriod}
}

// Default returns the configuration used when no file is given. Logs go to
// stderr because the FFI commands print their result on stdout.
func Default() *Config {
	return &Config{
		App: AppConfig{Name: "larena", Version: "dev"},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
			Output: "stderr",
		},
		Units: UnitsConfig{
			Decimals:         units.DefaultDecimals,
			SecondsPerPeriod: units.DefaultSecondsPerPeriod,
		},
		Schedule: ScheduleConfig{
			Elapsed: RangeConfig{Start: 0, End: 30, Step: 1},
			Sold:    RangeConfig{Start: 0, End: 100, Step: 10},
			Workers: 4,
		},
		Output: OutputConfig{Dir: "out", Compression: "snappy"},
		Metrics: MetricsConfig{
			CloudWatch: CloudWatchConfig{Namespace: "Larena", Dashboard: "Larena"},
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if config.CurvesFile != "" {
		set, err := LoadCurves(config.CurvesFile)
		if err != nil {
			return nil, err
		}
		if config.Curves == nil {
			config.Curves = make(map[string]CurveConfig, len(set.Curves))
		}
		for name, c := range set.Curves {
			if _, ok := config.Curves[name]; !ok {
				config.Curves[name] = c
			}
		}
	}

	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// applyEnv overrides S3 settings from the standard AWS variables.
func applyEnv(config *Config) {
	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}
	config.Storage.S3.Bucket = strings.TrimSpace(config.Storage.S3.Bucket)
}

func validateConfig(cfg *Config) error {
	if cfg.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if cfg.App.Version == "" {
		return fmt.Errorf("app.version is required")
	}

	if err := cfg.Units.Scale().Validate(); err != nil {
		return fmt.Errorf("units: %w", err)
	}

	for name, c := range cfg.Curves {
		if _, err := c.Curve(); err != nil {
			return fmt.Errorf("curves.%s: %w", name, err)
		}
	}

	if err := cfg.Schedule.Elapsed.validate("schedule.elapsed"); err != nil {
		return err
	}
	if err := cfg.Schedule.Sold.validate("schedule.sold"); err != nil {
		return err
	}
	if cfg.Schedule.Workers <= 0 {
		return fmt.Errorf("schedule.workers must be greater than 0")
	}

	switch strings.ToLower(cfg.Output.Compression) {
	case "snappy", "gzip", "none", "":
	default:
		return fmt.Errorf("output.compression '%s' is invalid", cfg.Output.Compression)
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when S3 is enabled")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when S3 is enabled")
		}
		if !isValidS3Bucket(cfg.Storage.S3.Bucket) {
			return fmt.Errorf("storage.s3.bucket '%s' is invalid", cfg.Storage.S3.Bucket)
		}
	} else if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir is required when S3 is disabled")
	}

	return nil
}

func (r RangeConfig) validate(prefix string) error {
	if r.Step <= 0 {
		return fmt.Errorf("%s.step must be greater than 0", prefix)
	}
	if r.End < r.Start {
		return fmt.Errorf("%s.end must not be before %s.start", prefix, prefix)
	}
	return nil
}

// Points expands the range into Start, Start+Step, ... up to End inclusive.
func (r RangeConfig) Points() []float64 {
	if r.Step <= 0 || r.End < r.Start {
		return nil
	}
	n := int((r.End-r.Start)/r.Step+1e-9) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Start + float64(i)*r.Step
	}
	return out
}

var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	return s3BucketRegexp.MatchString(name)
}
