package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	// UpstreamBaseURL points at the batch-payments backend.
	UpstreamBaseURL string

	RedisAddr string
	RedisDB   int

	// JournalDriver is "mysql" or "sqlite".
	JournalDriver string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	SQLitePath string

	PagesManifest string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:         getenv("APP_PORT", "8080"),
		UpstreamBaseURL: getenv("UPSTREAM_BASE_URL", "http://localhost:9090"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),

		JournalDriver: getenv("JOURNAL_DRIVER", "sqlite"),
		MySQLHost:     getenv("MYSQL_HOST", "mysql"),
		MySQLPort:     getenv("MYSQL_PORT", "3306"),
		MySQLDB:       getenv("MYSQL_DB", "paychain"),
		MySQLUser:     getenv("MYSQL_USER", "paychain"),
		MySQLPass:     getenv("MYSQL_PASS", "paychain"),
		SQLitePath:    getenv("SQLITE_PATH", "paychain.db"),

		PagesManifest: getenv("PAGES_MANIFEST", "configs/pages.yaml"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	u, err := url.Parse(c.UpstreamBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid UPSTREAM_BASE_URL %q", c.UpstreamBaseURL)
	}
	switch c.JournalDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("invalid JOURNAL_DRIVER %q", c.JournalDriver)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

// JournalDSN yields the DSN for the configured journal driver.
func (c *Config) JournalDSN() string {
	if c.JournalDriver == "sqlite" {
		return c.SQLitePath
	}
	// parseTime needed for DATETIME scanning into time.Time
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
