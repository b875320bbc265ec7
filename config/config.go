package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode         string `mapstructure:"mode"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	// Gemini, Unsplash and Places hold everything the outbound clients need.
	// Keys are read from the environment, never from the yml file, so the
	// embedded config stays safe to commit.
	Gemini struct {
		APIKey  string        `mapstructure:"apiKey"`
		Model   string        `mapstructure:"model"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"gemini"`
	Unsplash struct {
		AccessKey string        `mapstructure:"accessKey"`
		BaseURL   string        `mapstructure:"baseURL"`
		Timeout   time.Duration `mapstructure:"timeout"`
	} `mapstructure:"unsplash"`
	Places struct {
		APIKey      string        `mapstructure:"apiKey"`
		BaseURL     string        `mapstructure:"baseURL"`
		Timeout     time.Duration `mapstructure:"timeout"`
		MaxWidthPx  int           `mapstructure:"maxWidthPx"`
		MaxHeightPx int           `mapstructure:"maxHeightPx"`
	} `mapstructure:"places"`
	Auth struct {
		JWTSecret string `mapstructure:"jwtSecret"`
	} `mapstructure:"auth"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets come from the environment and overlay the file config.
	_ = v.BindEnv("gemini.apiKey", "GOOGLE_GEMINI_API_KEY")
	_ = v.BindEnv("unsplash.accessKey", "UNSPLASH_ACCESS_KEY")
	_ = v.BindEnv("places.apiKey", "GOOGLE_PLACES_API_KEY")
	_ = v.BindEnv("auth.jwtSecret", "JWT_SECRET_KEY")
	_ = v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("repositories.postgres.host", "POSTGRES_HOST")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
