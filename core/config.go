package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageFile     = "file"
	StorageBadger   = "badger"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// AI providers
const (
	AIProviderGemini = "gemini"
	AIProviderOpenAI = "openai"
)

type (
	Config struct {
		Env             string // DEV (local; default), TEST, QA, PROD
		Debug           bool
		TestMode        bool
		AppName         string
		Build           string
		WorkDir         string
		FrontendBaseURL string
		LogFormat       string // json | console
		RollbarToken    string

		Server   ServerConfig
		Storage  StorageConfig
		Creator  CreatorConfig
		AI       AIConfig
		Email    EmailConfig
		Database DatabaseConfig
	}

	ServerConfig struct {
		Addr            string
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		RequestTimeout  time.Duration
		AuthRateLimit   int
		AuthRateWindow  time.Duration
	}

	StorageConfig struct {
		Backend string
		Path    string // file path (file) or directory (badger)
	}

	// CreatorConfig holds the superuser credential pair checked before any collection lookup.
	// Secret may be plain text or a bcrypt hash.
	CreatorConfig struct {
		SchoolCode string
		Secret     string
	}

	AIConfig struct {
		Provider      string
		Timeout       time.Duration
		GeminiAPIKey  string
		GeminiModel   string
		GeminiBaseURL string
		OpenAIAPIKey  string
		OpenAIModel   string
		OpenAIBaseURL string
	}

	EmailConfig struct {
		SendgridAPIKey   string
		DefaultFromEmail string
	}

	DatabaseConfig struct {
		URL          string
		DocumentName string
	}
)

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("app_name", "Academia")
	v.SetDefault("build", "develop")
	v.SetDefault("frontend_base_url", "http://localhost:5173")
	v.SetDefault("log_format", "console")
	v.SetDefault("rollbar_token", "")
	v.SetDefault("server_addr", ":8000")
	v.SetDefault("server_host", "localhost")
	v.SetDefault("debug_host", ":4000")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("auth_rate_limit", 20)
	v.SetDefault("auth_rate_window", time.Minute)
	v.SetDefault("storage_backend", StorageFile)
	v.SetDefault("storage_path", filepath.Join("data", "db.json"))
	v.SetDefault("database_url", "")
	v.SetDefault("document_name", "academia")
	v.SetDefault("creator_school_code", "")
	v.SetDefault("creator_id", "")
	v.SetDefault("ai_provider", AIProviderGemini)
	v.SetDefault("ai_timeout", 60*time.Second)
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("gemini_base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("sendgrid_api_key", "")
	v.SetDefault("default_from_email", "Academia <noreply@localhost>")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("test_mode", true)
	}

	// load .env if it exists (ignore if it does not)
	workDir, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd(): %v", err)
	}
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:             env,
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("test_mode"),
		AppName:         v.GetString("app_name"),
		Build:           v.GetString("build"),
		WorkDir:         workDir,
		FrontendBaseURL: v.GetString("frontend_base_url"),
		LogFormat:       v.GetString("log_format"),
		RollbarToken:    v.GetString("rollbar_token"),
		Server: ServerConfig{
			Addr:            v.GetString("server_addr"),
			Host:            v.GetString("server_host"),
			DebugHost:       v.GetString("debug_host"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
			RequestTimeout:  v.GetDuration("request_timeout"),
			AuthRateLimit:   v.GetInt("auth_rate_limit"),
			AuthRateWindow:  v.GetDuration("auth_rate_window"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("storage_backend")),
			Path:    v.GetString("storage_path"),
		},
		Creator: CreatorConfig{
			SchoolCode: v.GetString("creator_school_code"),
			Secret:     v.GetString("creator_id"),
		},
		AI: AIConfig{
			Provider:      strings.ToLower(v.GetString("ai_provider")),
			Timeout:       v.GetDuration("ai_timeout"),
			GeminiAPIKey:  v.GetString("gemini_api_key"),
			GeminiModel:   v.GetString("gemini_model"),
			GeminiBaseURL: v.GetString("gemini_base_url"),
			OpenAIAPIKey:  v.GetString("openai_api_key"),
			OpenAIModel:   v.GetString("openai_model"),
			OpenAIBaseURL: v.GetString("openai_base_url"),
		},
		Email: EmailConfig{
			SendgridAPIKey:   v.GetString("sendgrid_api_key"),
			DefaultFromEmail: v.GetString("default_from_email"),
		},
		Database: DatabaseConfig{
			URL:          v.GetString("database_url"),
			DocumentName: v.GetString("document_name"),
		},
	}
}

// DefaultFromEmail parses the configured sender address, falling back to a bare noreply address.
func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.Email.DefaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: "noreply@localhost"}
	}
	return *addr
}
