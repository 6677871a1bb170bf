// Package config loads server settings from flags, the environment and an
// optional .env file. Flags win over the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	UserServiceURL  string
	GroupServiceURL string
	VoteServiceURL  string

	RemoteTimeout time.Duration
	LookupTimeout time.Duration
	RemoteRetries uint64

	JWTSecret string
	LogLevel  logrus.Level
}

// Load reads the .env file when present, then parses args on top of the
// environment.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	remoteTimeout, err := envDuration("REMOTE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	lookupTimeout, err := envDuration("LOOKUP_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}

	var (
		cfg      Config
		logLevel string
		retries  string
	)

	fs := flag.NewFlagSet("pollmanagement", flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "http-addr", envOr("HTTP_ADDR", "0.0.0.0:8080"), "HTTP listen address")
	fs.StringVar(&cfg.DBHost, "db-host", envOr("POSTGRES_HOST", "localhost"), "Database host")
	fs.StringVar(&cfg.DBPort, "db-port", envOr("POSTGRES_PORT", "5432"), "Database port")
	fs.StringVar(&cfg.DBUser, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	fs.StringVar(&cfg.DBPassword, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	fs.StringVar(&cfg.DBName, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	fs.StringVar(&cfg.UserServiceURL, "user-service-url", os.Getenv("USER_SERVICE_URL"), "User directory base URL")
	fs.StringVar(&cfg.GroupServiceURL, "group-service-url", os.Getenv("GROUP_SERVICE_URL"), "Group directory base URL")
	fs.StringVar(&cfg.VoteServiceURL, "vote-service-url", os.Getenv("VOTE_SERVICE_URL"), "Vote directory base URL")
	fs.DurationVar(&cfg.RemoteTimeout, "remote-timeout", remoteTimeout, "Timeout of a single directory call")
	fs.DurationVar(&cfg.LookupTimeout, "lookup-timeout", lookupTimeout, "Deadline of each enrichment lookup")
	fs.StringVar(&retries, "remote-retries", envOr("REMOTE_RETRIES", "2"), "Retries for failed directory calls")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "HS256 secret; empty disables token auth")
	fs.StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	n, err := strconv.ParseUint(retries, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid remote retries %q: %w", retries, err)
	}
	cfg.RemoteRetries = n

	cfg.LogLevel, err = logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	services := []struct {
		name string
		raw  string
	}{
		{"user service url", c.UserServiceURL},
		{"group service url", c.GroupServiceURL},
		{"vote service url", c.VoteServiceURL},
	}
	for _, svc := range services {
		if svc.raw == "" {
			return fmt.Errorf("%s is required", svc.name)
		}
		u, err := url.Parse(svc.raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s %q", svc.name, svc.raw)
		}
	}
	if c.RemoteTimeout <= 0 || c.LookupTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	return nil
}

// ConnString returns the lib/pq connection URL.
func (c *Config) ConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
