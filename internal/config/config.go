// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Probe   ProbeConfig   `mapstructure:"probe" yaml:"probe"`
	Suite   SuiteConfig   `mapstructure:"suite" yaml:"suite"`
	Report  ReportConfig  `mapstructure:"report" yaml:"report"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the headless browser instance.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	WindowWidth       int           `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight      int           `mapstructure:"window_height" yaml:"window_height"`
	Args              []string      `mapstructure:"args" yaml:"args"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	SettleTimeout     time.Duration `mapstructure:"settle_timeout" yaml:"settle_timeout"`
}

// ProbeConfig tunes how the chat widget is located and read.
//
// The selector lists are a versioned contract with the target site's DOM.
// They live in configuration rather than code so a page redesign can be
// absorbed without a rebuild.
type ProbeConfig struct {
	TargetURL          string        `mapstructure:"target_url" yaml:"target_url"`
	ConsentText        string        `mapstructure:"consent_text" yaml:"consent_text"`
	ConsentTimeout     time.Duration `mapstructure:"consent_timeout" yaml:"consent_timeout"`
	FrameURLHints      []string      `mapstructure:"frame_url_hints" yaml:"frame_url_hints"`
	InputSelectors     []string      `mapstructure:"input_selectors" yaml:"input_selectors"`
	ReplySelectors     []string      `mapstructure:"reply_selectors" yaml:"reply_selectors"`
	SelectorWait       time.Duration `mapstructure:"selector_wait" yaml:"selector_wait"`
	ReplyTimeout       time.Duration `mapstructure:"reply_timeout" yaml:"reply_timeout"`
	PollInterval       time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	BoilerplateMarkers []string      `mapstructure:"boilerplate_markers" yaml:"boilerplate_markers"`
	ReplyExcerptLen    int           `mapstructure:"reply_excerpt_len" yaml:"reply_excerpt_len"`
}

// SuiteConfig points at an optional external prompt suite file.
type SuiteConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// ReportConfig controls result output.
type ReportConfig struct {
	Output string `mapstructure:"output" yaml:"output"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "chatprobe")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)
	v.SetDefault("browser.navigation_timeout", "90s")
	v.SetDefault("browser.settle_timeout", "10s")

	// -- Probe --
	v.SetDefault("probe.target_url", "https://julius.ai/ai-chatbot")
	v.SetDefault("probe.consent_text", "Accept")
	v.SetDefault("probe.consent_timeout", "3s")
	v.SetDefault("probe.frame_url_hints", []string{"chat", "julius", "bot"})
	v.SetDefault("probe.input_selectors", DefaultInputSelectors)
	v.SetDefault("probe.reply_selectors", DefaultReplySelectors)
	v.SetDefault("probe.selector_wait", "5s")
	v.SetDefault("probe.reply_timeout", "30s")
	v.SetDefault("probe.poll_interval", "1s")
	v.SetDefault("probe.boilerplate_markers", []string{"Caesar Labs"})
	v.SetDefault("probe.reply_excerpt_len", 250)

	// -- Suite / Report --
	v.SetDefault("suite.file", "")
	v.SetDefault("report.output", "chatbot_results.csv")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Probe.TargetURL == "" {
		return fmt.Errorf("probe.target_url is a required configuration field")
	}
	if len(c.Probe.InputSelectors) == 0 {
		return fmt.Errorf("probe.input_selectors must contain at least one candidate")
	}
	if len(c.Probe.ReplySelectors) == 0 {
		return fmt.Errorf("probe.reply_selectors must contain at least one candidate")
	}
	if c.Probe.SelectorWait <= 0 {
		return fmt.Errorf("probe.selector_wait must be a positive duration")
	}
	if c.Probe.ConsentTimeout < 0 {
		return fmt.Errorf("probe.consent_timeout must not be negative")
	}
	if c.Probe.PollInterval <= 0 {
		return fmt.Errorf("probe.poll_interval must be a positive duration")
	}
	if c.Probe.ReplyTimeout < c.Probe.PollInterval {
		return fmt.Errorf("probe.reply_timeout must be at least one poll interval")
	}
	if c.Report.Output == "" {
		return fmt.Errorf("report.output is a required configuration field")
	}
	return nil
}
