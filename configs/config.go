package config

import (
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	DefaultGroqModel   = "llama-3.1-8b-instant"
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultPredictURL  = "http://127.0.0.1:8001/predict"
	DefaultMongoURI    = "mongodb://127.0.0.1:27017/mern_chat_mvp"
	defaultMongoDBName = "mern_chat_mvp"
)

// Config holds the application configuration
type Config struct {
	Port         string
	Environment  string
	LogMode      string
	ClientOrigin string

	StoreDriver    string
	MongoDBURI     string
	MongoDBName    string
	DatabaseURL    string
	GroqAPIKey     string
	GroqModel      string
	GroqBaseURL    string
	LLMTimeout     time.Duration
	PredictURL     string
	PredictURLSet  bool
	PredictTimeout time.Duration
	PromptsFile    string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	mongoURI := getEnv("MONGODB_URI", DefaultMongoURI)
	environment := getEnv("ENVIRONMENT", "development")
	return &Config{
		Port:           getEnv("PORT", "5000"),
		Environment:    environment,
		LogMode:        getEnv("LOG_MODE", environment),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		MongoDBURI:     mongoURI,
		MongoDBName:    getEnv("MONGODB_DATABASE", databaseFromURI(mongoURI)),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
		GroqModel:      getEnv("GROQ_MODEL", DefaultGroqModel),
		GroqBaseURL:    getEnv("GROQ_BASE_URL", DefaultGroqBaseURL),
		LLMTimeout:     getDuration("LLM_TIMEOUT", 30*time.Second),
		PredictURL:     getEnv("PREDICT_URL", DefaultPredictURL),
		PredictURLSet:  os.Getenv("PREDICT_URL") != "",
		PredictTimeout: getDuration("PREDICT_TIMEOUT", 30*time.Second),
		PromptsFile:    getEnv("PROMPTS_FILE", ""),
	}
}

// LLMEnabled reports whether a chat-completion credential is configured.
func (c *Config) LLMEnabled() bool {
	return c.GroqAPIKey != ""
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// databaseFromURI returns the path segment of a mongodb:// URI.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDBName
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultMongoDBName
}
