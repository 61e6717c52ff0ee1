package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        App        `mapstructure:"app"`
	Database   Database   `mapstructure:"database"`
	AI         AI         `mapstructure:"ai"`
	Scrape     Scrape     `mapstructure:"scrape"`
	Backfill   Backfill   `mapstructure:"backfill"`
	Newsletter Newsletter `mapstructure:"newsletter"`
	Email      Email      `mapstructure:"email"`
	Schedule   Schedule   `mapstructure:"schedule"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// Database holds the relational store configuration. The URL is required by
// every stage that touches the store and its absence is a fatal startup
// error.
type Database struct {
	URL string `mapstructure:"url"`
}

// AI holds AI/LLM configuration
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	ScoreModel  string  `mapstructure:"score_model"` // Cheaper model used for influence scoring
	Timeout     string  `mapstructure:"timeout"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
	MaxRetries  int     `mapstructure:"max_retries"`
}

// Scrape holds source-page scraping configuration
type Scrape struct {
	Sources         []string `mapstructure:"sources"`
	UserAgent       string   `mapstructure:"user_agent"`
	Timeout         string   `mapstructure:"timeout"`
	MaxHTMLChars    int      `mapstructure:"max_html_chars"`
	BrowserFallback bool     `mapstructure:"browser_fallback"`
}

// Backfill holds full-text backfill configuration
type Backfill struct {
	MinBodyChars int    `mapstructure:"min_body_chars"`
	Timeout      string `mapstructure:"timeout"`
}

// Newsletter holds selection and composition configuration
type Newsletter struct {
	WindowDays   int    `mapstructure:"window_days"` // Trailing selection window
	TopCount     int    `mapstructure:"top_count"`
	ContactPhone string `mapstructure:"contact_phone"`
	ContactMail  string `mapstructure:"contact_mail"`
	ContactWeb   string `mapstructure:"contact_web"`
	RedirectLink string `mapstructure:"redirect_link"`
}

// Email holds SMTP delivery configuration
type Email struct {
	SMTP        SMTPConfig `mapstructure:"smtp"`
	FromAddress string     `mapstructure:"from_address"`
	FromName    string     `mapstructure:"from_name"`
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Schedule holds the cron expression used by the run command
type Schedule struct {
	Cron string `mapstructure:"cron"`
}

var globalConfig *Config

// Load loads the configuration from .env, the optional config file, and
// environment variables
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	// Configure viper
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".newsbrief")
		viper.SetConfigType("yaml")
	}

	// Set defaults
	setDefaults()

	// Bind environment variables
	bindEnvironmentVariables()

	// Enable automatic environment variable reading
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal into struct
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate durations and bounds
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// RequireDatabase returns the database URL or an error when it is unset.
// Stages treat a missing URL as a fatal configuration failure.
func (c *Config) RequireDatabase() (string, error) {
	if c.Database.URL == "" {
		return "", fmt.Errorf("DATABASE_URL is required: set the environment variable or database.url in the config file")
	}
	return c.Database.URL, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")

	// AI defaults
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.score_model", "gemini-2.5-flash-lite")
	viper.SetDefault("ai.gemini.timeout", "60s")
	viper.SetDefault("ai.gemini.max_tokens", 2000)
	viper.SetDefault("ai.gemini.temperature", 0.1)
	viper.SetDefault("ai.gemini.max_retries", 3)

	// Scrape defaults: the fixed portal list the pipeline was built around
	viper.SetDefault("scrape.sources", []string{
		"https://futureoflife.org",
		"https://www.technologyreview.com",
		"https://www.wired.com/tag/artificial-intelligence/",
		"https://www.deeplearning.ai/the-batch/",
		"https://montrealethics.ai",
		"https://venturebeat.com/category/ai/",
		"https://www.artificialintelligence-news.com",
		"https://www.reuters.com/technology/artificial-intelligence/",
	})
	viper.SetDefault("scrape.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	viper.SetDefault("scrape.timeout", "30s")
	viper.SetDefault("scrape.max_html_chars", 100000)
	viper.SetDefault("scrape.browser_fallback", true)

	// Backfill defaults
	viper.SetDefault("backfill.min_body_chars", 50)
	viper.SetDefault("backfill.timeout", "30s")

	// Newsletter defaults
	viper.SetDefault("newsletter.window_days", 2)
	viper.SetDefault("newsletter.top_count", 5)
	viper.SetDefault("newsletter.contact_phone", "+352 661777082")
	viper.SetDefault("newsletter.contact_mail", "info@homesmartify.lu")
	viper.SetDefault("newsletter.contact_web", "https://www.homesmartify.lu")
	viper.SetDefault("newsletter.redirect_link", "https://www.homesmartify.lu")

	// Email defaults
	viper.SetDefault("email.smtp.host", "smtp.gmail.com")
	viper.SetDefault("email.smtp.port", 587)
	viper.SetDefault("email.from_name", "Newsbrief")

	// Schedule defaults: daily at 06:00
	viper.SetDefault("schedule.cron", "0 6 * * *")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	// Database connection string
	bindEnvKeys("database.url", []string{
		"DATABASE_URL",
		"POSTGRES_URL",
	})

	// Gemini API key - support multiple formats
	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	// Email SMTP
	bindEnvKeys("email.smtp.host", []string{
		"SMTP_HOST",
		"EMAIL_SMTP_HOST",
	})

	bindEnvKeys("email.smtp.username", []string{
		"SMTP_USERNAME",
		"EMAIL_USERNAME",
	})

	bindEnvKeys("email.smtp.password", []string{
		"SMTP_PASSWORD",
		"EMAIL_PASSWORD",
	})

	bindEnvKeys("email.from_address", []string{
		"EMAIL_FROM",
		"SMTP_FROM",
	})

	// Newsletter branding
	bindEnvKeys("newsletter.contact_phone", []string{"CONTACT_PHONE"})
	bindEnvKeys("newsletter.contact_mail", []string{"CONTACT_EMAIL"})
	bindEnvKeys("newsletter.contact_web", []string{"CONTACT_WEB"})
	bindEnvKeys("newsletter.redirect_link", []string{"REDIRECT_LINK"})

	// General settings
	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"NEWSBRIEF_DEBUG",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// validateConfig checks durations and numeric bounds
func validateConfig(config *Config) error {
	durations := map[string]string{
		"ai.gemini.timeout": config.AI.Gemini.Timeout,
		"scrape.timeout":    config.Scrape.Timeout,
		"backfill.timeout":  config.Backfill.Timeout,
	}
	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				return fmt.Errorf("invalid duration for %s: %s", key, duration)
			}
		}
	}

	if config.Newsletter.TopCount < 1 {
		return fmt.Errorf("newsletter.top_count must be at least 1, got %d", config.Newsletter.TopCount)
	}
	if config.Newsletter.WindowDays < 1 {
		return fmt.Errorf("newsletter.window_days must be at least 1, got %d", config.Newsletter.WindowDays)
	}
	if config.Backfill.MinBodyChars < 0 {
		return fmt.Errorf("backfill.min_body_chars must not be negative, got %d", config.Backfill.MinBodyChars)
	}

	return nil
}

// ScrapeTimeout returns the parsed scrape timeout, defaulting to 30s.
func (c *Config) ScrapeTimeout() time.Duration {
	d, err := time.ParseDuration(c.Scrape.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// BackfillTimeout returns the parsed backfill timeout, defaulting to 30s.
func (c *Config) BackfillTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backfill.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
