package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

type Config struct {
	Stage       string `mapstructure:"stage"`
	Port        int    `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database_url"`

	// Optional YAML file overriding the rules of every game
	RulesFile     string `mapstructure:"rules_file"`
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// Load reads the environment, and the .env file outside prod, and sets
// default values. envFile may be empty.
func Load(envFile string) (Config, error) {
	if envFile != "" && os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("error reading env file: %v", err)
		}
	}

	v := viper.New()
	v.SetDefault("stage", StageDev)
	v.SetDefault("port", 8000)
	v.SetDefault("database_url", "")
	v.SetDefault("rules_file", "")
	v.SetDefault("migrations_dir", "file://db/migration")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Stage != StageProd && c.Stage != StageDev {
		return fmt.Errorf("invalid type of development stage: %s", c.Stage)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}
