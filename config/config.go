package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string          `yaml:"port"`
	Environment    string          `yaml:"environment"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	JWTSecret      string          `yaml:"jwt_secret"`
	LogLevel       string          `yaml:"log_level"`
	Redis          RedisConfig     `yaml:"redis"`
	Session        SessionConfig   `yaml:"session"`
	Signaling      SignalingConfig `yaml:"signaling"`
	RTC            RTCConfig       `yaml:"rtc"`
	Audio          AudioConfig     `yaml:"audio"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
	// SweepInterval is how often audio widgets of expired sessions are closed.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// SignalingConfig points the audio widget at the server that receives its
// offers and ICE candidates.
type SignalingConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type RTCConfig struct {
	ICEServers []string `yaml:"ice_servers"`
}

// AudioConfig describes the capture device and the raw PCM it produces.
type AudioConfig struct {
	Device        string `yaml:"device"`
	ChunkSize     int    `yaml:"chunk_size"`
	SampleRate    int    `yaml:"sample_rate"`
	Channels      int    `yaml:"channels"`
	BitsPerSample int    `yaml:"bits_per_sample"`
}

func defaults() *Config {
	return &Config{
		Port:           "8080",
		Environment:    "development",
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		JWTSecret:      "change-me-in-production",
		LogLevel:       "info",
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		Session: SessionConfig{
			TTL:           2 * time.Hour,
			SweepInterval: time.Minute,
		},
		Signaling: SignalingConfig{
			Endpoint: "http://localhost:8081/signal",
			Timeout:  5 * time.Second,
		},
		RTC: RTCConfig{ICEServers: []string{"stun:stun.l.google.com:19302"}},
		Audio: AudioConfig{
			Device:        "/dev/audio-capture",
			ChunkSize:     4096,
			SampleRate:    48000,
			Channels:      1,
			BitsPerSample: 16,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if set), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	// Parse allowed origins (comma-separated)
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		c.AllowedOrigins = splitList(originsStr)
	}

	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnv("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = db
	}

	if err := durationEnv("SESSION_TTL", &c.Session.TTL); err != nil {
		return err
	}
	if err := durationEnv("SESSION_SWEEP_INTERVAL", &c.Session.SweepInterval); err != nil {
		return err
	}

	c.Signaling.Endpoint = getEnv("SIGNALING_ENDPOINT", c.Signaling.Endpoint)
	if err := durationEnv("SIGNALING_TIMEOUT", &c.Signaling.Timeout); err != nil {
		return err
	}

	if raw := os.Getenv("ICE_SERVERS"); raw != "" {
		c.RTC.ICEServers = splitList(raw)
	}

	c.Audio.Device = getEnv("AUDIO_DEVICE", c.Audio.Device)
	for key, dst := range map[string]*int{
		"AUDIO_CHUNK_SIZE":      &c.Audio.ChunkSize,
		"AUDIO_SAMPLE_RATE":     &c.Audio.SampleRate,
		"AUDIO_CHANNELS":        &c.Audio.Channels,
		"AUDIO_BITS_PER_SAMPLE": &c.Audio.BitsPerSample,
	} {
		if err := intEnv(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret is required"))
	}
	if c.IsProduction() && c.JWTSecret == "change-me-in-production" {
		errs = append(errs, errors.New("jwt secret must be changed in production"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.Session.SweepInterval <= 0 {
		errs = append(errs, errors.New("session sweep interval must be positive"))
	}
	if c.Signaling.Endpoint == "" {
		errs = append(errs, errors.New("signaling endpoint is required"))
	}
	if c.Signaling.Timeout <= 0 {
		errs = append(errs, errors.New("signaling timeout must be positive"))
	}
	if c.Audio.ChunkSize <= 0 {
		errs = append(errs, errors.New("audio chunk size must be positive"))
	}
	if c.Audio.SampleRate <= 0 || c.Audio.Channels <= 0 {
		errs = append(errs, errors.New("audio sample rate and channels must be positive"))
	}
	switch c.Audio.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		errs = append(errs, fmt.Errorf("audio bits per sample must be 8, 16, 24 or 32, got %d", c.Audio.BitsPerSample))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, dst *time.Duration) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func intEnv(key string, dst *int) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
