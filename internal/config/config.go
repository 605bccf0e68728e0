package config

import (
	"embed"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

//go:embed defaults.toml
var defaultsFile embed.FS

const (
	LetterCaseLower = "lower"
	LetterCaseUpper = "upper"

	envSourceDir   = "NAMESHERPA_SOURCE_DIR"
	envSurnamesURL = "NAMESHERPA_SURNAMES_URL"
	envLetterCase  = "NAMESHERPA_LETTER_CASE"
)

type Config struct {
	Progress   bool             `toml:"progress"`
	FirstNames FirstNamesConfig `toml:"first_names"`
	Surnames   SurnamesConfig   `toml:"surnames"`
}

type FirstNamesConfig struct {
	SourceDir  string `toml:"source_dir"`
	Pattern    string `toml:"pattern"`
	OutputPath string `toml:"output_path"`
}

type SurnamesConfig struct {
	BaseURL    string   `toml:"base_url"`
	LetterCase string   `toml:"letter_case"`
	Timeout    Duration `toml:"timeout"`
	Delay      Duration `toml:"delay"`
	UserAgent  string   `toml:"user_agent"`
	OutputPath string   `toml:"output_path"`
}

// Duration decodes toml strings such as "10s" or "1500ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", string(text))
	}
	d.Duration = parsed
	return nil
}

// Default returns the embedded configuration.
func Default() (Config, error) {
	var cfg Config

	fileData, err := defaultsFile.ReadFile("defaults.toml")
	if err != nil {
		return Config{}, err
	}

	if _, err := toml.Decode(string(fileData), &cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode default config")
	}
	return cfg, nil
}

// Load builds the configuration from the embedded defaults, the optional toml
// file at path, a .env file in the working directory and NAMESHERPA_*
// environment variables, in that order of increasing precedence.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "failed to load config %s", path)
		}
	}

	if err := loadEnvFile(".env"); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load %s", path)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(envSourceDir); ok {
		cfg.FirstNames.SourceDir = v
	}
	if v, ok := os.LookupEnv(envSurnamesURL); ok {
		cfg.Surnames.BaseURL = v
	}
	if v, ok := os.LookupEnv(envLetterCase); ok {
		cfg.Surnames.LetterCase = v
	}
}

func (c Config) Validate() error {
	if c.FirstNames.Pattern == "" {
		return errors.New("first_names.pattern is required")
	}
	if c.FirstNames.OutputPath == "" {
		return errors.New("first_names.output_path is required")
	}
	if c.Surnames.OutputPath == "" {
		return errors.New("surnames.output_path is required")
	}
	if c.Surnames.LetterCase != LetterCaseLower && c.Surnames.LetterCase != LetterCaseUpper {
		return errors.Errorf("surnames.letter_case must be %q or %q, got %q",
			LetterCaseLower, LetterCaseUpper, c.Surnames.LetterCase)
	}
	if c.Surnames.Timeout.Duration <= 0 {
		return errors.New("surnames.timeout must be positive")
	}
	if c.Surnames.Delay.Duration < 0 {
		return errors.New("surnames.delay must not be negative")
	}
	if _, err := url.Parse(c.Surnames.BaseURL); err != nil || c.Surnames.BaseURL == "" {
		return errors.Errorf("surnames.base_url %q is not a valid URL", c.Surnames.BaseURL)
	}
	return nil
}
