package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the desk
// booking service. It is constructed once at startup and injected into each
// component; nothing reads the process environment after Load returns.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	TokenTTL          time.Duration
	BookingsRetention time.Duration
	InactiveUserTTL   time.Duration
	CleanupInterval   time.Duration
	AdminUser         string
	AdminPass         string
	StaticUsers       map[string]string
	LogLevel          string
}

// Load parses configuration values from the current process environment.
//
// The loader applies defaults for every field while validating numeric
// values and reporting the offending variable names for invalid entries.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:          8080,
		SQLiteDSN:         "file:lab_desks.db?_pragma=foreign_keys(1)",
		TokenTTL:          30 * 24 * time.Hour,
		BookingsRetention: 180 * 24 * time.Hour,
		InactiveUserTTL:   365 * 24 * time.Hour,
		CleanupInterval:   24 * time.Hour,
		AdminUser:         "admin",
		AdminPass:         "change-me",
		StaticUsers:       ParseStaticUsers("user:password"),
		LogLevel:          "info",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("DESKS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "DESKS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("DESKS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	readDays := func(name string, target *time.Duration) {
		raw := strings.TrimSpace(os.Getenv(name))
		if raw == "" {
			return
		}
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			invalid = append(invalid, name)
			return
		}
		*target = time.Duration(days) * 24 * time.Hour
	}

	readDays("DESKS_TOKEN_TTL_DAYS", &cfg.TokenTTL)
	readDays("DESKS_BOOKINGS_RETENTION_DAYS", &cfg.BookingsRetention)
	readDays("DESKS_INACTIVE_USER_DAYS", &cfg.InactiveUserTTL)

	if raw := strings.TrimSpace(os.Getenv("DESKS_CLEANUP_INTERVAL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			invalid = append(invalid, "DESKS_CLEANUP_INTERVAL_HOURS")
		} else {
			cfg.CleanupInterval = time.Duration(hours) * time.Hour
		}
	}

	if user := strings.TrimSpace(os.Getenv("DESKS_ADMIN_USER")); user != "" {
		cfg.AdminUser = user
	}
	if pass := os.Getenv("DESKS_ADMIN_PASS"); pass != "" {
		cfg.AdminPass = pass
	}
	if spec := strings.TrimSpace(os.Getenv("DESKS_USERS")); spec != "" {
		cfg.StaticUsers = ParseStaticUsers(spec)
	}
	if level := strings.TrimSpace(os.Getenv("DESKS_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// ParseStaticUsers parses the "name:pass,name:pass" fallback user list.
// Malformed entries are skipped.
func ParseStaticUsers(spec string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, pass, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out[name] = strings.TrimSpace(pass)
	}
	return out
}
