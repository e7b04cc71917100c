package rootfiles

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

const (
	DefaultBind      = ":8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultAccessLogLevel = "info"
)

type Config struct {
	HTTP  *HTTPConfig  `hcl:"http,block"`
	Log   *LogConfig   `hcl:"log,block"`
	Roots *RootsConfig `hcl:"roots,block"`
}

type HTTPConfig struct {
	Bind string `hcl:"bind,optional"`
}

// LogConfig configures the global logger. AccessLevel is the lowest level
// request logs are written at; failed requests are raised above it.
type LogConfig struct {
	Level       string `hcl:"level,optional"`
	Format      string `hcl:"format,optional"`
	AccessLevel string `hcl:"access_level,optional"`
}

// RootsConfig controls volume enumeration. All keeps kernel pseudo
// filesystems such as proc and sysfs; filesystem roots are always listed.
type RootsConfig struct {
	All bool `hcl:"all,optional"`
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.HTTP == nil {
		c.HTTP = &HTTPConfig{}
	}
	if c.HTTP.Bind == "" {
		c.HTTP.Bind = DefaultBind
	}

	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.AccessLevel == "" {
		c.Log.AccessLevel = DefaultAccessLogLevel
	}

	if c.Roots == nil {
		c.Roots = &RootsConfig{}
	}
}

func (c *Config) validate() error {
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	if _, err := zerolog.ParseLevel(c.Log.AccessLevel); err != nil {
		return fmt.Errorf("invalid access log level %q: %w", c.Log.AccessLevel, err)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}

func newHCLEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{},
		Functions: map[string]function.Function{},
	}
}

func LoadConfig(path string) (*Config, error) {
	var cfg Config
	evalCtx := newHCLEvalContext()
	err := hclsimple.DecodeFile(path, evalCtx, &cfg)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
