package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Storage   StorageConfig
	Drive     DriveConfig
	Auth      AuthConfig
	Assistant AssistantConfig
	Analysis  AnalysisConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type DriveConfig struct {
	CredentialsJSON string
	FolderPath      string
}

type AuthConfig struct {
	JWTSecret     string
	Issuer        string
	ExpiryMinutes int
}

type AssistantConfig struct {
	Endpoint string
	APIKey   string
}

// AnalysisConfig carries the ABC curve thresholds. They are validated by
// analysis.NewCurveConfig before the engine is built.
type AnalysisConfig struct {
	CurveAMin float64
	CurveBMin float64
	CurveCMin float64
	TopN      int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 60)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "farmaindex")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "farmaindex-planilhas")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
		viper.SetDefault("GOOGLE_DRIVE_FOLDER_PATH", "")
		viper.SetDefault("AUTH_JWT_SECRET", "")
		viper.SetDefault("AUTH_ISSUER", "farmaindex")
		viper.SetDefault("AUTH_EXPIRY_MINUTES", 480)
		viper.SetDefault("ASSISTANT_ENDPOINT", "")
		viper.SetDefault("ASSISTANT_API_KEY", "")
		viper.SetDefault("ANALYSIS_CURVE_A_MIN", 9)
		viper.SetDefault("ANALYSIS_CURVE_B_MIN", 3)
		viper.SetDefault("ANALYSIS_CURVE_C_MIN", 1)
		viper.SetDefault("ANALYSIS_TOP_N", 10)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Drive: DriveConfig{
				CredentialsJSON: viper.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
				FolderPath:      viper.GetString("GOOGLE_DRIVE_FOLDER_PATH"),
			},
			Auth: AuthConfig{
				JWTSecret:     viper.GetString("AUTH_JWT_SECRET"),
				Issuer:        viper.GetString("AUTH_ISSUER"),
				ExpiryMinutes: viper.GetInt("AUTH_EXPIRY_MINUTES"),
			},
			Assistant: AssistantConfig{
				Endpoint: viper.GetString("ASSISTANT_ENDPOINT"),
				APIKey:   viper.GetString("ASSISTANT_API_KEY"),
			},
			Analysis: AnalysisConfig{
				CurveAMin: viper.GetFloat64("ANALYSIS_CURVE_A_MIN"),
				CurveBMin: viper.GetFloat64("ANALYSIS_CURVE_B_MIN"),
				CurveCMin: viper.GetFloat64("ANALYSIS_CURVE_C_MIN"),
				TopN:      viper.GetInt("ANALYSIS_TOP_N"),
			},
		}
	})

	return instance
}
