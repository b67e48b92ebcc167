package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/fitpass-app/fitpass/internal/shared/config"
)

type Config struct {
	Server      sharedConfig.ServerConfig      `mapstructure:"server"`
	Database    sharedConfig.DatabaseConfig    `mapstructure:"database"`
	Logger      sharedConfig.LoggerConfig      `mapstructure:"logger"`
	Auth        sharedConfig.AuthConfig        `mapstructure:"auth"`
	Email       sharedConfig.EmailConfig       `mapstructure:"email"`
	Redis       sharedConfig.RedisConfig       `mapstructure:"redis"`
	Storage     sharedConfig.StorageConfig     `mapstructure:"storage"`
	Checkin     sharedConfig.CheckinConfig     `mapstructure:"checkin"`
	Competition sharedConfig.CompetitionConfig `mapstructure:"competition"`
	Family      sharedConfig.FamilyConfig      `mapstructure:"family"`
	Gateway     sharedConfig.GatewayConfig     `mapstructure:"gateway"`
	Client      sharedConfig.ClientConfig      `mapstructure:"client"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// configPath is optional; when empty the usual ./configs locations are searched
// and a missing file is tolerated so the CLI works with env vars alone.
func Load(env string, configPath ...string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	explicit := len(configPath) > 0 && configPath[0] != ""
	if explicit {
		v.SetConfigFile(configPath[0])
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("FITPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.timezone", "America/Sao_Paulo")
	v.SetDefault("server.min_client_version", "")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.database", "fitpass_dev")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.migration_strategy", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("auth.anon_key", "anon")
	v.SetDefault("auth.password.bcrypt_cost", 12)
	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.access_exp_minutes", 60)
	v.SetDefault("auth.jwt.refresh_exp_days", 30)

	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.from_address", "noreply@fitpass.local")
	v.SetDefault("email.from_name", "FitPass")
	v.SetDefault("email.base_url", "fitpass://invite")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.root", "./data/storage")
	v.SetDefault("storage.max_upload_size", 5<<20)

	v.SetDefault("checkin.pending_ttl", "2h")
	v.SetDefault("checkin.expiry_schedule", "@every 5m")
	v.SetDefault("checkin.default_radius_meters", 100.0)
	v.SetDefault("checkin.validations_per_hour", 30)

	v.SetDefault("competition.ranking_schedule", "@every 15m")

	v.SetDefault("family.max_members", 4)
	v.SetDefault("family.invite_ttl", "168h")

	v.SetDefault("gateway.url", "http://localhost:8080")
	v.SetDefault("gateway.anon_key", "anon")
	v.SetDefault("gateway.timeout", "30s")
	v.SetDefault("gateway.retry.max_retries", 2)
	v.SetDefault("gateway.retry.initial_backoff", "200ms")
	v.SetDefault("gateway.retry.max_backoff", "5s")
	v.SetDefault("gateway.circuit_breaker.failure_threshold", 5)
	v.SetDefault("gateway.circuit_breaker.success_threshold", 2)
	v.SetDefault("gateway.circuit_breaker.timeout", "30s")

	v.SetDefault("client.session_file", defaultSessionFile())
	v.SetDefault("client.locale", "pt-BR")
	v.SetDefault("client.location.permission", "prompt")
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".fitpass-session.yaml"
	}
	return dir + string(os.PathSeparator) + "fitpass" + string(os.PathSeparator) + "session.yaml"
}
