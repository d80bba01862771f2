package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

func (l LogLevel) ToSlog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type LogFormat string

const (
	LogFormatPlaintext LogFormat = "plaintext"
	LogFormatJSON      LogFormat = "json"
	LogFormatTint      LogFormat = "tint"
)

type AppEnv string

const (
	AppEnvDev        AppEnv = "dev"
	AppEnvProduction AppEnv = "production"
)

type DatabaseDriver string

const (
	DatabaseDriverPostgres DatabaseDriver = "postgres"
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
)

type Config struct {
	App      AppConfig
	Sentry   SentryConfig
	Database DatabaseConfig
	Log      LogConfig
	Email    EmailConfig
	Admin    AdminConfig
	// External login providers by name, e.g. [oauth.github]
	OAuthProviders map[string]OAuthProviderConfig `mapstructure:"OAUTH"`
}

type AppConfig struct {
	Debug           bool
	SSL             bool   `default:"true"`
	Port            uint32 `default:"3000"`
	ProxyPort       uint32
	BasePath        string `default:""`
	Host            string
	URL             string
	Name            string
	ShutdownTimeout int32  `default:"2"` // in seconds
	Env             AppEnv `default:"production"`
	Version         string
	RequestTimeout  uint32 `default:"30"` // in seconds
	// Maximum size of an uploaded spreadsheet, in megabytes
	MaxUpload         int64  `default:"10"`
	AuthenticationKey string `                     mapstructure:"AUTHKEY"`
	EncryptionKey     string `                     mapstructure:"ENCKEY"`
}

type SentryConfig struct {
	Enabled      bool
	DSN          string
	SampleRate   float64
	TracesRate   float64
	ProfilesRate float64
	ReplayRate   float64
}

type DatabaseConfig struct {
	Driver DatabaseDriver `default:"postgres"`
	// Connection string for postgres, file path or ":memory:" for sqlite
	URL    string
	Schema string `default:"public"`
}

type LogConfig struct {
	// json, plaintext or tint
	Format  LogFormat `default:"json"`
	Level   LogLevel
	Verbose bool
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	// Address that receives notifications, e.g. about country uploads. Leave empty to disable them.
	Notifications string
}

// Enabled returns false if no smtp server was configured.
func (c EmailConfig) Enabled() bool {
	return len(c.Host) > 0
}

type OAuthProviderConfig struct {
	ID       string
	Secret   string
	Scope    []string
	AuthURL  string
	TokenURL string
	UserURL  string
}

// AdminConfig describes the account that is created when the application starts without any users.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

func (c Config) BaseURL() string {
	url := c.App.URL
	// If no url was specified, build one from the host and port values
	if len(c.App.URL) == 0 {
		port := c.App.Port
		if c.App.ProxyPort > 0 {
			port = c.App.ProxyPort
		}
		url = fmt.Sprintf("%v:%v", c.App.Host, port)
	}
	protocol := "http"
	if c.App.SSL {
		protocol = "https"
	}
	return fmt.Sprintf(
		"%s://%s",
		protocol,
		url,
	)
}

func (c *Config) IsTest() bool {
	return flag.Lookup("test.v") != nil || strings.HasSuffix(os.Args[0], ".test") ||
		strings.Contains(os.Args[0], "/_test/")
}

// Load the configuration file from the specified filesystem.
// You can specify additional .env files to load, by default this only checks for ".env" in the
// current working directory.
func Load(configFS fs.FS, dotenvFiles ...string) (*Config, error) {
	file, err := configFS.Open("config.toml")
	if err != nil {
		return nil, fmt.Errorf("could not find config.toml in the configFS: %w", err)
	}

	reader := viper.NewWithOptions(viper.KeyDelimiter("_"))
	reader.SetConfigType("toml")
	setDefaults(reader)

	if err = reader.ReadConfig(file); err != nil {
		return nil, fmt.Errorf("could not load the app configuration: %w", err)
	}

	// Environment override
	err = godotenv.Load(dotenvFiles...)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("No .env file found, continuing...")
	} else if err != nil {
		return nil, fmt.Errorf(".env file found, but could not load it: %w", err)
	}
	reader.AutomaticEnv()

	var config Config
	if err := reader.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("invalid config format: %w", err)
	}

	if config.App.Debug && !config.IsTest() {
		slog.Warn("APP_DEBUG is turned on, do not run this mode in production!")
	}

	return &config, nil
}

// Every key needs a value before it can be overridden through the environment.
func setDefaults(reader *viper.Viper) {
	for key, value := range map[string]any{
		"app_debug":           false,
		"app_ssl":             true,
		"app_port":            3000,
		"app_host":            "localhost",
		"app_name":            "crud",
		"app_shutdowntimeout": 2,
		"app_env":             AppEnvProduction,
		"app_requesttimeout":  30,
		"app_maxupload":       10,
		"app_authkey":         "",
		"app_enckey":          "",
		"database_driver":     DatabaseDriverPostgres,
		"database_url":        "",
		"database_schema":     "public",
		"log_format":          LogFormatJSON,
		"log_level":           LogLevelInfo,
		"log_verbose":         false,
		"sentry_enabled":      false,
		"sentry_dsn":          "",
		"email_host":          "",
		"email_port":          587,
		"email_user":          "",
		"email_password":      "",
		"email_from":          "",
		"email_notifications": "",
		"admin_name":          "Admin",
		"admin_email":         "admin@crud.com",
		"admin_password":      "Password1!",
	} {
		reader.SetDefault(key, value)
	}
}
