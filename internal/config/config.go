package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"vet-clinic-console/internal/domain/transitions"
	"vet-clinic-console/internal/platform/httpclient"
	"vet-clinic-console/internal/platform/logger"
)

const DefaultAppName = "vet-clinic-console"

// Store es el backend de citas e historias clínicas elegido al arrancar.
type Store string

const (
	StoreClinicAPI Store = "clinicapi"
	StorePostgres  Store = "postgres"
	StoreMemory    Store = "memory"
)

type Config struct {
	AppName string
	Port    string

	// Backend: CLINIC_API_URL gana sobre DB_DSN; sin ninguno queda en memoria.
	ClinicAPIURL     string
	ClinicAPIToken   string
	ClinicAPITimeout time.Duration
	DBDSN            string

	TransitionCooldown time.Duration

	LogLevel  logger.Level
	LogFormat logger.Format
}

// Load lee .env (si existe) y después el entorno. Las variables ya definidas
// en el entorno no se pisan.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg, err := fromEnv(os.Getenv)
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func fromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	apiTimeout, err := duration(get("CLINIC_API_TIMEOUT", ""), httpclient.DefaultTimeout)
	if err != nil {
		return Config{}, fmt.Errorf("CLINIC_API_TIMEOUT: %w", err)
	}
	cooldown, err := duration(get("TRANSITION_COOLDOWN", ""), transitions.DefaultCooldown)
	if err != nil {
		return Config{}, fmt.Errorf("TRANSITION_COOLDOWN: %w", err)
	}

	return Config{
		AppName:            get("APP_NAME", DefaultAppName),
		Port:               get("PORT", "8080"),
		ClinicAPIURL:       get("CLINIC_API_URL", ""),
		ClinicAPIToken:     get("CLINIC_API_TOKEN", ""),
		ClinicAPITimeout:   apiTimeout,
		DBDSN:              get("DB_DSN", ""),
		TransitionCooldown: cooldown,
		LogLevel:           logger.ParseLevel(get("LOG_LEVEL", "info")),
		LogFormat:          logger.ParseFormat(get("LOG_FORMAT", "text")),
	}, nil
}

// duration acepta "1s", "250ms" o un número de segundos.
func duration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

func (c Config) Validate() error {
	p, err := strconv.Atoi(c.Port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port (got %q)", c.Port)
	}
	if c.ClinicAPIURL != "" {
		u, err := url.ParseRequestURI(c.ClinicAPIURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("CLINIC_API_URL must be an http(s) url (got %q)", c.ClinicAPIURL)
		}
	}
	if c.ClinicAPITimeout <= 0 {
		return errors.New("CLINIC_API_TIMEOUT must be positive")
	}
	if c.TransitionCooldown <= 0 {
		return errors.New("TRANSITION_COOLDOWN must be positive")
	}
	return nil
}

func (c Config) Store() Store {
	switch {
	case c.ClinicAPIURL != "":
		return StoreClinicAPI
	case c.DBDSN != "":
		return StorePostgres
	default:
		return StoreMemory
	}
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		App:    c.AppName,
	}
}
