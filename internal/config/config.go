package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Webhook  WebhookConfig
	N8N      N8NConfig
	PII      PIIConfig
	Artifact ArtifactConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds token signing configuration for the identity and admin
// middleware
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// WebhookConfig holds the shared secret for inbound verdict callbacks
type WebhookConfig struct {
	Secret string
}

// N8NConfig holds the outbound review workflow engine configuration
type N8NConfig struct {
	WorkflowURL    string
	APIKey         string
	TimeoutSeconds int
	Mock           bool
}

// PIIConfig holds the hex-encoded 32-byte key for payout data encryption
type PIIConfig struct {
	EncKeyHex string
}

// ArtifactConfig holds artifact storage configuration. With an empty Dir the
// service falls back to inline data-URL artifacts.
type ArtifactConfig struct {
	Dir     string
	BaseURL string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", GetEnv("PORT", "4000"))
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", GetEnv("MONGODB_URI", "mongodb://localhost:27017"))
	viper.SetDefault("MongoDB.Database", "picquest-rewards")
	viper.SetDefault("JWT.Secret", GetEnv("JWT_SECRET", ""))
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Webhook.Secret", GetEnv("WEBHOOK_SECRET", ""))
	viper.SetDefault("N8N.WorkflowURL", GetEnv("N8N_WORKFLOW_URL", ""))
	viper.SetDefault("N8N.APIKey", GetEnv("N8N_API_KEY", ""))
	viper.SetDefault("N8N.TimeoutSeconds", 15)
	viper.SetDefault("N8N.Mock", GetEnvAsBool("N8N_MOCK", false))
	viper.SetDefault("PII.EncKeyHex", GetEnv("PII_ENC_KEY", ""))
	viper.SetDefault("Artifact.Dir", GetEnv("ARTIFACT_DIR", ""))
	viper.SetDefault("Artifact.BaseURL", GetEnv("ARTIFACT_BASE_URL", "/artifacts"))
	viper.SetDefault("LogLevel", "info")
}
