package pg

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrymomot/querygate/pkg/config"
)

// Config holds the parameters of one database connection.
// It is resolved from the environment on every connect attempt.
type Config struct {
	Host           string
	Database       string
	User           string
	Password       string
	Port           int
	SSL            bool          // SSL enables TLS on the connection.
	SSLVerify      bool          // SSLVerify enables certificate and hostname verification when SSL is on.
	ConnectTimeout time.Duration // ConnectTimeout bounds a single dial.
	QueryTimeout   time.Duration // QueryTimeout bounds a single proxied query.
}

// envConfig mirrors the raw environment. Each connection field has a service
// specific variable and a libpq-style fallback.
type envConfig struct {
	Host       string `env:"DB_HOST"`
	PGHost     string `env:"PGHOST"`
	Database   string `env:"DB_NAME"`
	PGDatabase string `env:"PGDATABASE"`
	User       string `env:"DB_USER"`
	PGUser     string `env:"PGUSER"`
	Password   string `env:"DB_PASSWORD"`
	PGPassword string `env:"PGPASSWORD"`
	Port       string `env:"DB_PORT"`
	PGPort     string `env:"PGPORT"`

	SSL            bool          `env:"DB_SSL" envDefault:"false"`
	SSLVerify      bool          `env:"DB_SSL_VERIFY" envDefault:"false"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
	QueryTimeout   time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"30s"`
}

// LoadConfig builds a Config from the current environment.
// Values are read fresh on every call.
func LoadConfig() (Config, error) {
	var raw envConfig
	if err := config.Parse(&raw); err != nil {
		return Config{}, errors.Join(ErrFailedToParseDBConfig, err)
	}

	port, err := strconv.Atoi(firstNonEmpty(raw.Port, raw.PGPort, "5432"))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, errors.Join(ErrFailedToParseDBConfig, fmt.Errorf("invalid port %q", firstNonEmpty(raw.Port, raw.PGPort)))
	}

	return Config{
		Host:           firstNonEmpty(raw.Host, raw.PGHost, "localhost"),
		Database:       firstNonEmpty(raw.Database, raw.PGDatabase, "postgres"),
		User:           firstNonEmpty(raw.User, raw.PGUser, "postgres"),
		Password:       firstNonEmpty(raw.Password, raw.PGPassword),
		Port:           port,
		SSL:            raw.SSL,
		SSLVerify:      raw.SSLVerify,
		ConnectTimeout: raw.ConnectTimeout,
		QueryTimeout:   raw.QueryTimeout,
	}, nil
}

// SSLMode maps the TLS flags onto a libpq sslmode.
func (c Config) SSLMode() string {
	switch {
	case !c.SSL:
		return "disable"
	case c.SSLVerify:
		return "verify-full"
	default:
		return "require"
	}
}

// ConnString renders the config as a postgres:// URL.
func (c Config) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode())
	u.RawQuery = q.Encode()
	return u.String()
}

// String returns the connection target without credentials, safe for logs.
func (c Config) String() string {
	return fmt.Sprintf("%s@%s/%s?sslmode=%s", c.User, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), c.Database, c.SSLMode())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
