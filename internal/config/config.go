package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	DBDriver   string
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	EventStream       string
	EventStreamMaxLen int64

	// DeployerAddress owns the contracts deployed at startup and may mint.
	DeployerAddress string
	SnowflakeNode   int64

	LogLevel string
	LogDev   bool
}

var reAddress = regexp.MustCompile(`^[a-f0-9]{32}$`)

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads the environment, after a best-effort .env in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:    getenv("APP_PORT", "8080"),
		DBDriver:   getenv("DB_DRIVER", "mysql"),
		SQLitePath: getenv("SQLITE_PATH", "settlement.db"),
		MySQLHost:  getenv("MYSQL_HOST", "mysql"),
		MySQLPort:  getenv("MYSQL_PORT", "3306"),
		MySQLDB:    getenv("MYSQL_DB", "settlement"),
		MySQLUser:  getenv("MYSQL_USER", "settlement"),
		MySQLPass:  getenv("MYSQL_PASS", "settlement"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getenvInt("REDIS_DB", 0),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		EventStream:       getenv("EVENT_STREAM", "settlement:events"),
		EventStreamMaxLen: int64(getenvInt("EVENT_STREAM_MAXLEN", 100000)),

		DeployerAddress: os.Getenv("DEPLOYER_ADDRESS"),
		SnowflakeNode:   int64(getenvInt("SNOWFLAKE_NODE", 1)),

		LogLevel: getenv("LOG_LEVEL", "info"),
		LogDev:   os.Getenv("LOG_DEV") == "1",
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if !reAddress.MatchString(c.DeployerAddress) {
		return errors.New("DEPLOYER_ADDRESS must be 32 lowercase hex chars")
	}
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER %q (mysql|sqlite)", c.DBDriver)
	}
	if c.SnowflakeNode < 0 || c.SnowflakeNode > 1023 {
		return fmt.Errorf("SNOWFLAKE_NODE %d out of range 0..1023", c.SnowflakeNode)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN is what the selected driver opens.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return c.MySQLDSN()
}
