// Package config loads the resume-builder configuration: an optional YAML or
// JSON file, RESUME_* environment overrides and .env files.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/nikogura/resume-builder/pkg/llm"
	"github.com/nikogura/resume-builder/pkg/pipeline"
	"github.com/nikogura/resume-builder/pkg/renderer"
)

// EnvPrefix prefixes environment overrides, e.g. RESUME_TIMEOUT=60s.
const EnvPrefix = "RESUME"

// Config is the application configuration. It is read once at start and
// passed by value afterwards.
type Config struct {
	Providers         []ProviderConfig `mapstructure:"providers" validate:"required,min=1,unique=Name,dive"`
	PreferredProvider string           `mapstructure:"preferred_provider"`
	Timeout           time.Duration    `mapstructure:"timeout" validate:"min=1s,max=10m"`
	Attempts          int              `mapstructure:"attempts" validate:"min=1,max=10"`
	Backoff           time.Duration    `mapstructure:"backoff" validate:"min=0s,max=1m"`
	SystemPrompt      string           `mapstructure:"system_prompt"`
	OutputDir         string           `mapstructure:"output_dir" validate:"required"`
	LogLevel          string           `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat         string           `mapstructure:"log_format" validate:"oneof=console json"`
	ListenAddr        string           `mapstructure:"listen_addr" validate:"required"`
	Accent            string           `mapstructure:"accent" validate:"omitempty,hexcolor"`
	PDF               PDFConfig        `mapstructure:"pdf"`
}

// ProviderConfig is one entry of the provider table.
type ProviderConfig struct {
	Name        string  `mapstructure:"name" validate:"required"`
	Endpoint    string  `mapstructure:"endpoint" validate:"required,url"`
	APIKeyEnv   string  `mapstructure:"api_key_env"`
	Model       string  `mapstructure:"model" validate:"required"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"gt=0"`
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	Format      string  `mapstructure:"format" validate:"oneof=openai anthropic"`
	DefaultKey  string  `mapstructure:"default_key"`
}

// PDFConfig configures headless Chrome printing.
type PDFConfig struct {
	ChromePath string        `mapstructure:"chrome_path"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"min=0s"`
}

// DefaultPath returns ~/.resume-builder/config.yaml.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".resume-builder", "config.yaml")
	return path, err
}

func newViper() (v *viper.Viper) {
	v = viper.New()

	providers := make([]map[string]interface{}, 0)
	for _, p := range llm.DefaultProviders() {
		providers = append(providers, map[string]interface{}{
			"name":        p.Name,
			"endpoint":    p.Endpoint,
			"api_key_env": p.APIKeyEnv,
			"model":       p.Model,
			"max_tokens":  p.MaxTokens,
			"temperature": p.Temperature,
			"format":      string(p.Format),
			"default_key": p.DefaultKey,
		})
	}

	v.SetDefault("providers", providers)
	v.SetDefault("preferred_provider", "")
	v.SetDefault("timeout", llm.DefaultTimeout.String())
	v.SetDefault("attempts", pipeline.DefaultAttempts)
	v.SetDefault("backoff", pipeline.DefaultBackoff.String())
	v.SetDefault("system_prompt", llm.DefaultSystemPrompt)
	v.SetDefault("output_dir", ".")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("accent", renderer.DefaultAccent)
	v.SetDefault("pdf.chrome_path", "")
	v.SetDefault("pdf.timeout", renderer.DefaultPDFTimeout.String())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads configuration. With an explicit path the file must exist;
// otherwise ~/.resume-builder/config.yaml and ./config.yaml are tried and
// built-in defaults are used when neither exists.
func Load(configPath string) (cfg Config, err error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		err = v.ReadInConfig()
		if err != nil {
			err = errors.Wrapf(err, "failed to read config file: %s", configPath)
			return cfg, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if homeDir, homeErr := os.UserHomeDir(); homeErr == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".resume-builder"))
		}
		v.AddConfigPath(".")

		err = v.ReadInConfig()
		if err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				err = errors.Wrap(err, "failed to read config file")
				return cfg, err
			}
			err = nil
		}
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		err = errors.Wrap(err, "failed to parse config")
		return cfg, err
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// LoadDotEnv loads KEY=value files into the environment without overriding
// variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) (loaded []string, err error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	loaded = []string{}
	for _, path := range paths {
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		err = godotenv.Load(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to load env file: %s", path)
			return loaded, err
		}
		loaded = append(loaded, path)
	}

	return loaded, err
}

// Validate checks field constraints and that the preferred provider, if
// any, is in the table.
func (c *Config) Validate() (err error) {
	err = validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fe.Namespace()+" failed "+fe.Tag()+tagParam(fe.Param()))
			}
			err = errors.New(strings.Join(msgs, "; "))
			return err
		}
		err = errors.Wrap(err, "invalid configuration")
		return err
	}

	if c.PreferredProvider != "" {
		found := false
		for _, p := range c.Providers {
			if p.Name == c.PreferredProvider {
				found = true
				break
			}
		}
		if !found {
			err = errors.Errorf("preferred_provider %q is not in providers", c.PreferredProvider)
			return err
		}
	}

	return err
}

func tagParam(param string) (s string) {
	if param != "" {
		s = "=" + param
	}
	return s
}

// Registry builds the immutable provider registry.
func (c *Config) Registry() (r *llm.Registry, err error) {
	providers := make([]llm.Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		providers = append(providers, llm.Provider{
			Name:        p.Name,
			Endpoint:    p.Endpoint,
			APIKeyEnv:   p.APIKeyEnv,
			Model:       p.Model,
			MaxTokens:   p.MaxTokens,
			Temperature: p.Temperature,
			Format:      llm.Format(p.Format),
			DefaultKey:  p.DefaultKey,
		})
	}

	r, err = llm.NewRegistry(providers...)
	if err != nil {
		err = errors.Wrap(err, "invalid provider table")
		return r, err
	}

	return r, err
}

// InitConfig writes a starter config file with every default spelled out.
// It refuses to overwrite an existing file.
func InitConfig(configPath string) (path string, err error) {
	path = configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return path, err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return path, err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return path, err
	}

	v := newViper()
	v.SetConfigPermissions(0600)

	err = v.WriteConfigAs(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return path, err
	}

	return path, err
}
