package config

import (
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port" validate:"min=0,max=65535"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url" validate:"required"`
	} `yaml:"database"`

	Pipeline struct {
		// PageSize bounds how many records each stage loads and commits at
		// once. One page is one transaction.
		PageSize int `yaml:"page_size" validate:"min=1"`
		// RunHour is the local hour of day the nightly run fires.
		RunHour int `yaml:"run_hour" validate:"min=0,max=23"`
		// MinGroupSize is the minimum number of scored members a room needs
		// to receive a total score and enter ranking cohorts.
		MinGroupSize int `yaml:"min_group_size" validate:"min=1"`
	} `yaml:"pipeline"`

	Email struct {
		SMTPHost        string   `yaml:"smtp_host"`
		SMTPPort        int      `yaml:"smtp_port"`
		SMTPUser        string   `yaml:"smtp_user"`
		SMTPPassword    string   `yaml:"smtp_password"`
		FromEmail       string   `yaml:"from_email"`
		AlertRecipients []string `yaml:"alert_recipients"`
	} `yaml:"email"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
	} else {
		cfg.Database.DSN = dbURL
		cfg.Server.Env = os.Getenv("SERVER_ENV")
		cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	}

	applyDefaults(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Pipeline.PageSize == 0 {
		cfg.Pipeline.PageSize = 10
	}
	if cfg.Pipeline.MinGroupSize == 0 {
		cfg.Pipeline.MinGroupSize = 5
	}
	// RunHour defaults to 0: the run fires at midnight, scoring yesterday.
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
