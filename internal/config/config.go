package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Weather     WeatherConfig   `mapstructure:"weather"`
	Geocoding   GeocodingConfig `mapstructure:"geocoding"`
	Pricing     PricingConfig   `mapstructure:"pricing"`
	Retention   RetentionConfig `mapstructure:"retention"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	DatabaseURL     string `mapstructure:"database_url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime string `mapstructure:"conn_max_idle_time"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WeatherConfig configures the DWD-backed irradiance service client.
type WeatherConfig struct {
	ServiceURL      string `mapstructure:"service_url"`
	Timeout         int    `mapstructure:"timeout"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes"`
}

// GeocodingConfig configures the Nominatim lookup for named locations.
type GeocodingConfig struct {
	ServiceURL string `mapstructure:"service_url"`
	Timeout    int    `mapstructure:"timeout"`
}

// PricingConfig configures electricity price resolution.
type PricingConfig struct {
	LiveAPIURL         string  `mapstructure:"live_api_url"`
	Timeout            int     `mapstructure:"timeout"`
	DefaultRateEURKWh  float64 `mapstructure:"default_rate_eur_kwh"`
	SnapshotTTLMinutes int     `mapstructure:"snapshot_ttl_minutes"`
	HouseholdMarkup    float64 `mapstructure:"household_markup"`
	MinPlausibleEURKWh float64 `mapstructure:"min_plausible_eur_kwh"`
	MaxPlausibleEURKWh float64 `mapstructure:"max_plausible_eur_kwh"`
}

// RetentionConfig controls pruning of stored analyses.
type RetentionConfig struct {
	AnalysisRetentionDays int `mapstructure:"analysis_retention_days"`
	CleanupIntervalHours  int `mapstructure:"cleanup_interval_hours"`
}

type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Exporter     string `mapstructure:"exporter"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file is optional; defaults and environment variables suffice.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "solarplan")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.database_url", "")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "300s")
	viper.SetDefault("database.conn_max_idle_time", "60s")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("weather.service_url", "http://localhost:3001")
	viper.SetDefault("weather.timeout", 15)
	viper.SetDefault("weather.cache_ttl_minutes", 360)

	viper.SetDefault("geocoding.service_url", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocoding.timeout", 10)

	viper.SetDefault("pricing.live_api_url", "https://api.energy-charts.info")
	viper.SetDefault("pricing.timeout", 10)
	viper.SetDefault("pricing.default_rate_eur_kwh", 0.34)
	viper.SetDefault("pricing.snapshot_ttl_minutes", 60)
	viper.SetDefault("pricing.household_markup", 3.5)
	viper.SetDefault("pricing.min_plausible_eur_kwh", 0.15)
	viper.SetDefault("pricing.max_plausible_eur_kwh", 0.60)

	viper.SetDefault("retention.analysis_retention_days", 365)
	viper.SetDefault("retention.cleanup_interval_hours", 24)

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.exporter", "stdout")
	viper.SetDefault("telemetry.otlp_endpoint", "localhost:4318")
	viper.SetDefault("telemetry.service_name", "solarplan")
}
