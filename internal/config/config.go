package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	S3           S3Config
	Scorer       ScorerConfig
	Orchestrator OrchestratorConfig
	Drift        DriftConfig
	Logger       LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type S3Config struct {
	Region           string
	Bucket           string
	Endpoint         string
	AccessKey        string
	SecretKey        string
	UsePathStyle     bool
	ProductionPrefix string
	LogPrefix        string
	ReportPrefix     string
}

type ScorerConfig struct {
	URL     string
	Timeout time.Duration
}

type OrchestratorConfig struct {
	URL        string
	Deployment string
	Timeout    time.Duration
}

type DriftConfig struct {
	ReferenceRef    string
	Schedule        string
	ScheduleEnabled bool
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "model_gate")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET", "model-gate")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_USE_PATH_STYLE", false)
	v.SetDefault("S3_PRODUCTION_PREFIX", "production/model")
	v.SetDefault("S3_LOG_PREFIX", "inference_logs")
	v.SetDefault("S3_REPORT_PREFIX", "monitoring_reports")
	v.SetDefault("SCORER_URL", "http://localhost:8090")
	v.SetDefault("SCORER_TIMEOUT", "120s")
	v.SetDefault("ORCHESTRATOR_URL", "http://localhost:4200")
	v.SetDefault("ORCHESTRATOR_DEPLOYMENT", "training-pipeline/train")
	v.SetDefault("ORCHESTRATOR_TIMEOUT", "30s")
	v.SetDefault("DRIFT_REFERENCE_REF", "s3://model-gate/reference/reference.json")
	v.SetDefault("DRIFT_SCHEDULE", "0 6 * * *")
	v.SetDefault("DRIFT_SCHEDULE_ENABLED", false)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durationOr(v, "DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		S3: S3Config{
			Region:           v.GetString("S3_REGION"),
			Bucket:           v.GetString("S3_BUCKET"),
			Endpoint:         v.GetString("S3_ENDPOINT"),
			AccessKey:        v.GetString("S3_ACCESS_KEY"),
			SecretKey:        v.GetString("S3_SECRET_KEY"),
			UsePathStyle:     v.GetBool("S3_USE_PATH_STYLE"),
			ProductionPrefix: v.GetString("S3_PRODUCTION_PREFIX"),
			LogPrefix:        v.GetString("S3_LOG_PREFIX"),
			ReportPrefix:     v.GetString("S3_REPORT_PREFIX"),
		},
		Scorer: ScorerConfig{
			URL:     v.GetString("SCORER_URL"),
			Timeout: durationOr(v, "SCORER_TIMEOUT", 2*time.Minute),
		},
		Orchestrator: OrchestratorConfig{
			URL:        v.GetString("ORCHESTRATOR_URL"),
			Deployment: v.GetString("ORCHESTRATOR_DEPLOYMENT"),
			Timeout:    durationOr(v, "ORCHESTRATOR_TIMEOUT", 30*time.Second),
		},
		Drift: DriftConfig{
			ReferenceRef:    v.GetString("DRIFT_REFERENCE_REF"),
			Schedule:        v.GetString("DRIFT_SCHEDULE"),
			ScheduleEnabled: v.GetBool("DRIFT_SCHEDULE_ENABLED"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
