package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Environment       string `mapstructure:"ENVIRONMENT"`
	DBSource          string `mapstructure:"DB_SOURCE"`
	HTTPServerAddress string `mapstructure:"HTTP_SERVER_ADDRESS"`

	// CompanyID scopes every query; the service runs single-tenant per
	// deployment.
	CompanyID int64  `mapstructure:"COMPANY_ID"`
	Timezone  string `mapstructure:"TIMEZONE"`

	// Scheduling knobs. ServiceOpen anchors windowless jobs; lateness above
	// MaxLatenessMin makes a placement infeasible.
	ServiceOpen    string `mapstructure:"SERVICE_OPEN"`
	MaxLatenessMin int    `mapstructure:"MAX_LATENESS_MIN"`
	AssumeHomeBase bool   `mapstructure:"ASSUME_HOMEBASE"`

	SeedPath string `mapstructure:"SEED_PATH"`
}

// LoadConfig reads configuration from app.env in the given path, falling
// back to environment variables when the file is absent.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("COMPANY_ID", 1)
	viper.SetDefault("TIMEZONE", "America/New_York")
	viper.SetDefault("SERVICE_OPEN", "06:00")
	viper.SetDefault("MAX_LATENESS_MIN", 0)
	viper.SetDefault("ASSUME_HOMEBASE", true)
	viper.SetDefault("SEED_PATH", "data/seeds/demo.json")

	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return config, fmt.Errorf("load config: read app.env: %w", err)
		}
		err = nil
	}

	if err = viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("load config: unmarshal: %w", err)
	}

	config.DBSource = strings.TrimSpace(config.DBSource)
	if config.DBSource == "" {
		return config, errors.New("load config: DB_SOURCE is required")
	}

	return config, nil
}
