package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix         = "CATALOG_"
	DefaultConfigFile = "config.yaml"

	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	Store    StoreConfig    `koanf:"store"`
	Redis    RedisConfig    `koanf:"redis"`
	Log      LogConfig      `koanf:"log"`
	Auth     AuthConfig     `koanf:"auth"`
	Password PasswordConfig `koanf:"password"`
}

type StoreConfig struct {
	// Driver is one of sqlite, redis or memory.
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
}

type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	KeyPrefix   string        `koanf:"key_prefix"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // console | json
}

type AuthConfig struct {
	BcryptCost   int  `koanf:"bcrypt_cost"`
	SeedAccounts bool `koanf:"seed_accounts"`
}

// PasswordConfig defines password strength requirements.
type PasswordConfig struct {
	MinLength      int  `koanf:"min_length"`
	RequireDigit   bool `koanf:"require_digit"`
	RequireSpecial bool `koanf:"require_special"`
	RequireUpper   bool `koanf:"require_upper"`
	RequireLower   bool `koanf:"require_lower"`
}

func Default() Config {
	return Config{
		Store: StoreConfig{Driver: DriverSQLite, Path: "catalog.db"},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			KeyPrefix:   "catalog",
			DialTimeout: 5 * time.Second,
		},
		Log:  LogConfig{Level: "info", Format: "console"},
		Auth: AuthConfig{BcryptCost: 10, SeedAccounts: true},
		Password: PasswordConfig{
			MinLength:      8,
			RequireDigit:   true,
			RequireSpecial: true,
			RequireUpper:   true,
		},
	}
}

// Load layers defaults, the YAML file at path and CATALOG_* environment
// variables, in that order. An empty path falls back to config.yaml in the
// working directory, which may be absent.
func Load(path string) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("load env variables: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: strings.EqualFold,
		},
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps CATALOG_STORE__DRIVER to store.driver.
func envKey(k, v string) (string, any) {
	k = strings.TrimPrefix(k, EnvPrefix)
	k = strings.ToLower(strings.ReplaceAll(k, "__", "."))
	return k, v
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("store.path is required for the sqlite driver")
		}
	case DriverRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("redis.addr is required for the redis driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Password.MinLength < 1 {
		return fmt.Errorf("password.min_length must be positive")
	}
	return nil
}
