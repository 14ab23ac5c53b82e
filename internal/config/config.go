package config

import (
	"fmt"
	"net"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig  `mapstructure:"server"`
	DB          DBConfig      `mapstructure:"db"`
	Mail        MailConfig    `mapstructure:"mail"`
	Marker      MarkerConfig  `mapstructure:"marker"`
	Listing     ListingConfig `mapstructure:"listing"`
	Workers     WorkersConfig `mapstructure:"workers"`
	Static      StaticConfig  `mapstructure:"static"`
	Log         LogConfig     `mapstructure:"log"`
	Domain      string        `mapstructure:"domain"`
	LandingPath string        `mapstructure:"landing_path"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Port int    `mapstructure:"port"`
}

// BindAddr is the host:port the HTTP server listens on.
func (s ServerConfig) BindAddr() string {
	return net.JoinHostPort(s.Addr, strconv.Itoa(s.Port))
}

type DBConfig struct {
	Driver         string        `mapstructure:"driver"`
	Source         string        `mapstructure:"source"`
	MaxConns       int           `mapstructure:"max_conns"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`
}

type MailConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	Suffix   string        `mapstructure:"suffix"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether real delivery was configured. Without credentials
// confirmations are only logged.
func (m MailConfig) Enabled() bool {
	return m.Username != "" && m.Password != ""
}

type MarkerConfig struct {
	Secret string `mapstructure:"secret"`
}

type ListingConfig struct {
	AllowAnonymous bool `mapstructure:"allow_anonymous"`
}

type WorkersConfig struct {
	Count int `mapstructure:"count"`
	Queue int `mapstructure:"queue"`
}

type StaticConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	workers := runtime.NumCPU()

	v.SetDefault("server.addr", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.source", "data.db")
	v.SetDefault("db.max_conns", workers)
	v.SetDefault("db.acquire_timeout", 30*time.Second)
	v.SetDefault("domain", "localhost")
	v.SetDefault("landing_path", "/index.html")
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.suffix", "@husky.neu.edu")
	v.SetDefault("mail.timeout", 30*time.Second)
	v.SetDefault("marker.secret", "")
	v.SetDefault("static.path", "")
	v.SetDefault("listing.allow_anonymous", true)
	v.SetDefault("workers.count", workers)
	v.SetDefault("workers.queue", workers*16)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"db":         "db.source",
	"addr":       "server.addr",
	"port":       "server.port",
	"domain":     "domain",
	"username":   "mail.username",
	"password":   "mail.password",
	"db-driver":  "db.driver",
	"static-dir": "static.path",
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("commencement-tickets", pflag.ContinueOnError)
	fs.String("db", "", "sqlite database path (or postgres connection string with --db-driver postgres)")
	fs.String("db-driver", "", "database driver: sqlite or postgres")
	fs.IntP("port", "p", 0, "port for the webserver")
	fs.String("addr", "", "address the webserver binds to")
	fs.String("domain", "", "dns domain used in email confirmations")
	fs.String("username", "", "mail account used for sending confirmations")
	fs.String("password", "", "mail password used for sending confirmations")
	fs.String("static-dir", "", "directory with the web client assets")
	fs.String("config", "", "path to a settings.yml file")
	return fs
}

// Load builds the configuration from defaults, an optional settings.yml,
// environment variables and command-line args, in increasing precedence.
func Load(args []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./configs")
		v.AddConfigPath("/configs")
		v.SetConfigName("settings")
		v.SetConfigType("yml")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	if c.Domain == "" {
		return fmt.Errorf("domain must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if !strings.HasPrefix(c.LandingPath, "/") {
		return fmt.Errorf("landing_path must be an absolute path, got %q", c.LandingPath)
	}
	return nil
}
