package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "DEADLINEMATE"

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
	RepositoryDemo     = "demo"

	DismissalInMemory = "inmemory"
	DismissalSQLite   = "sqlite"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Repository    RepositoryConfig    `mapstructure:"repository"`
	Dismissal     DismissalConfig     `mapstructure:"dismissal"`
	Worker        WorkerConfig        `mapstructure:"worker"`
	Viewer        ViewerConfig        `mapstructure:"viewer"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimit      int           `mapstructure:"rate_limit"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MinConnections int           `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type"` // "postgres", "inmemory" или "demo"
}

type DismissalConfig struct {
	Type string `mapstructure:"type"` // "inmemory" или "sqlite"
	Path string `mapstructure:"path"`
}

type WorkerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type ViewerConfig struct {
	Timezone string `mapstructure:"timezone"`
}

type NotificationsConfig struct {
	Limit int `mapstructure:"limit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)

	v.SetDefault("logging.development", false)

	v.SetDefault("repository.type", RepositoryInMemory)

	v.SetDefault("dismissal.type", DismissalInMemory)
	v.SetDefault("dismissal.path", "data/dismissals.db")

	v.SetDefault("worker.interval", time.Minute)

	v.SetDefault("viewer.timezone", "Local")

	v.SetDefault("notifications.limit", 3)
}

// Load читает конфиг: значения по умолчанию, затем файл path (если есть), затем
// переменные окружения DEADLINEMATE_SERVER_PORT и т.п.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			// файл необязателен, без него работают значения по умолчанию и окружение
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("ошибка чтения %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port не задан"))
	}
	if c.Server.RateLimit <= 0 {
		errs = append(errs, errors.New("server.rate_limit должен быть больше 0"))
	}

	switch c.Repository.Type {
	case RepositoryPostgres, RepositoryInMemory, RepositoryDemo:
	default:
		errs = append(errs, fmt.Errorf("неизвестный repository.type %q", c.Repository.Type))
	}

	switch c.Dismissal.Type {
	case DismissalInMemory:
	case DismissalSQLite:
		if c.Dismissal.Path == "" {
			errs = append(errs, errors.New("dismissal.path обязателен для sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("неизвестный dismissal.type %q", c.Dismissal.Type))
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		errs = append(errs, errors.New("database.min_connections больше max_connections"))
	}
	if c.Worker.Interval <= 0 {
		errs = append(errs, errors.New("worker.interval должен быть больше 0"))
	}
	if c.Notifications.Limit <= 0 {
		errs = append(errs, errors.New("notifications.limit должен быть больше 0"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("неверная конфигурация: %w", errors.Join(errs...))
	}
	return nil
}

// Location - часовой пояс пользователя, по нему считаются "сегодня" и "завтра"
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Viewer.Timezone)
	if err != nil {
		return nil, fmt.Errorf("viewer.timezone %q: %w", c.Viewer.Timezone, err)
	}
	return loc, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
