// Package config loads runtime settings for the storefront from defaults, an optional .env
// file, the process environment and explicit overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile          = ".env"
	defaultPort             = "8080"
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultLogLevel         = "info"
	defaultCarouselInterval = 5 * time.Second
	defaultLightboxGrace    = 300 * time.Millisecond
	defaultNewsletterFlash  = 3 * time.Second
	defaultViewIdleTTL      = 30 * time.Minute
	defaultViewReapInterval = time.Minute
	defaultViewMax          = 10000
	defaultEventsBuffer     = 16
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server      ServerConfig
	Content     ContentConfig
	Logging     LoggingConfig
	Interaction InteractionConfig
	Views       ViewConfig
	Events      EventsConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// ContentConfig points at the storefront content and templates. Empty paths use the
// embedded copies.
type ContentConfig struct {
	File         string
	TemplatesDir string
	Dev          bool
}

// LoggingConfig selects the minimum log level.
type LoggingConfig struct {
	Level string
}

// InteractionConfig holds the delays of the timed widgets.
type InteractionConfig struct {
	CarouselInterval time.Duration
	LightboxGrace    time.Duration
	NewsletterFlash  time.Duration
}

// ViewConfig bounds the live view registry.
type ViewConfig struct {
	IdleTTL      time.Duration
	ReapInterval time.Duration
	Max          int
}

// EventsConfig sizes the per-subscriber event buffers.
type EventsConfig struct {
	Buffer int
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path. An empty path disables the file layer.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects explicit values that take precedence over the system environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration. Precedence, lowest first: defaults, .env, process
// environment, WithEnvMap.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	p := &parser{lookup: lookup}
	cfg := Config{
		Server: ServerConfig{
			Port:         p.str("CREATO_PORT", p.str("PORT", defaultPort)),
			ReadTimeout:  p.duration("CREATO_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: p.duration("CREATO_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  p.duration("CREATO_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Content: ContentConfig{
			File:         p.str("CREATO_CONTENT_FILE", ""),
			TemplatesDir: p.str("CREATO_TEMPLATES_DIR", ""),
			Dev:          p.boolean("CREATO_DEV", false),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(p.str("CREATO_LOG_LEVEL", defaultLogLevel)),
		},
		Interaction: InteractionConfig{
			CarouselInterval: p.duration("CREATO_CAROUSEL_INTERVAL", defaultCarouselInterval),
			LightboxGrace:    p.duration("CREATO_LIGHTBOX_GRACE", defaultLightboxGrace),
			NewsletterFlash:  p.duration("CREATO_NEWSLETTER_FLASH", defaultNewsletterFlash),
		},
		Views: ViewConfig{
			IdleTTL:      p.duration("CREATO_VIEW_IDLE_TTL", defaultViewIdleTTL),
			ReapInterval: p.duration("CREATO_VIEW_REAP_INTERVAL", defaultViewReapInterval),
			Max:          p.integer("CREATO_VIEW_MAX", defaultViewMax),
		},
		Events: EventsConfig{
			Buffer: p.integer("CREATO_EVENTS_BUFFER", defaultEventsBuffer),
		},
	}

	if err := validateConfig(cfg, p.invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr returns the listen address for the server port.
func (c Config) Addr() string {
	if strings.Contains(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}

func validateConfig(cfg Config, invalid []string) error {
	missing := append([]string(nil), invalid...)

	if strings.TrimSpace(cfg.Server.Port) == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Server.ReadTimeout <= 0 {
		missing = append(missing, "Server.ReadTimeout")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		missing = append(missing, "Logging.Level")
	}
	if cfg.Interaction.CarouselInterval <= 0 {
		missing = append(missing, "Interaction.CarouselInterval")
	}
	if cfg.Interaction.LightboxGrace < 0 {
		missing = append(missing, "Interaction.LightboxGrace")
	}
	if cfg.Interaction.NewsletterFlash <= 0 {
		missing = append(missing, "Interaction.NewsletterFlash")
	}
	if cfg.Views.IdleTTL <= 0 {
		missing = append(missing, "Views.IdleTTL")
	}
	if cfg.Views.ReapInterval <= 0 {
		missing = append(missing, "Views.ReapInterval")
	}
	if cfg.Views.Max < 0 {
		missing = append(missing, "Views.Max")
	}
	if cfg.Events.Buffer <= 0 {
		missing = append(missing, "Events.Buffer")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	return values, nil
}

// parser reads typed values and records keys whose values do not parse.
type parser struct {
	lookup  func(string) (string, bool)
	invalid []string
}

func (p *parser) str(key, fallback string) string {
	if value, ok := p.lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	value, ok := p.lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return d
}

func (p *parser) integer(key string, fallback int) int {
	value, ok := p.lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return n
}

func (p *parser) boolean(key string, fallback bool) bool {
	value, ok := p.lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	p.invalid = append(p.invalid, key)
	return fallback
}
