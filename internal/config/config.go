package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	Menu     MenuConfig     `mapstructure:"menu"`
	Search   SearchConfig   `mapstructure:"search"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// MenuConfig tunes repository lookup behavior.
type MenuConfig struct {
	// LooseIDMatch enables the bidirectional substring fallback when no
	// exact id match is found in the index.
	LooseIDMatch bool `mapstructure:"loose_id_match"`
}

// SearchConfig tunes the similarity search engine.
type SearchConfig struct {
	MaxResults int `mapstructure:"max_results"`
	MinScore   int `mapstructure:"min_score"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variables override file values,
	// e.g. database.uri -> DATABASE_URI, s3.bucket_name -> S3_BUCKET_NAME.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "swim_training")
	viper.SetDefault("s3.region", "auto")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("menu.loose_id_match", true)
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.min_score", 3)

	err = viper.ReadInConfig()
	// Missing config file is fine; defaults and env vars carry the load.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
