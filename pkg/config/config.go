package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Database DatabaseConfig `mapstructure:"database"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	FAQ      FAQConfig      `mapstructure:"faq"`
	Tickets  TicketsConfig  `mapstructure:"tickets"`
	Web      WebConfig      `mapstructure:"web"`
	Chat     ChatConfig     `mapstructure:"chat"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	UsePostgres bool   `mapstructure:"use_postgres"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type FAQConfig struct {
	// Sources are loaded in order; missing entries are skipped. Empty means
	// default resolution (derived set first, then the bundled sample set).
	Sources  []string `mapstructure:"sources"`
	UseIndex bool     `mapstructure:"use_index"`
	Watch    bool     `mapstructure:"watch"`
}

type TicketsConfig struct {
	CSVPath string `mapstructure:"csv_path"`
}

type WebConfig struct {
	Addr string `mapstructure:"addr"`
}

type ChatConfig struct {
	Greetings []string `mapstructure:"greetings"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:        u.Hostname(),
		Port:        port,
		User:        u.User.Username(),
		Password:    password,
		DBName:      dbName,
		SSLMode:     "disable",
		UsePostgres: true,
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.use_postgres", false)
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("faq.use_index", true)
	v.SetDefault("faq.watch", false)
	v.SetDefault("tickets.csv_path", "tickets.csv")
	v.SetDefault("web.addr", ":8080")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file; running from env and defaults alone is fine
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Database = dbConfig
	}

	// Get other environment variables
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if model := v.GetString("OPENAI_MODEL"); model != "" {
		config.OpenAI.Model = model
	}

	if faqCSV := v.GetString("FAQ_CSV"); faqCSV != "" {
		config.FAQ.Sources = []string{faqCSV}
	}

	if ticketsCSV := v.GetString("TICKETS_CSV"); ticketsCSV != "" {
		config.Tickets.CSVPath = ticketsCSV
	}

	return &config, nil
}
