package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	BackendJSON      = "json"
	BackendMongo     = "mongo"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Storage   Storage   `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Mongo     Mongo     `mapstructure:",squash"`
	Firestore Firestore `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
	Seed      Seed      `mapstructure:",squash"`
	SecretKey string    `mapstructure:"secret_key"`
}

type Server struct {
	Host               string   `mapstructure:"host"`
	Port               string   `mapstructure:"port"`
	CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Storage struct {
	Backend string `mapstructure:"storage_backend"`
	DataDir string `mapstructure:"data_dir"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Mongo struct {
	URI      string `mapstructure:"mongodb_uri"`
	Database string `mapstructure:"mongodb_name"`
}

type Firestore struct {
	ProjectID       string `mapstructure:"firestore_project_id"`
	CredentialsFile string `mapstructure:"firestore_credentials_file"`
}

type Auth struct {
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type Seed struct {
	Enabled         bool   `mapstructure:"seed_users"`
	DefaultPassword string `mapstructure:"seed_default_password"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("STORAGE_BACKEND", BackendJSON)
	viper.SetDefault("DATA_DIR", "data")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/minimart?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGODB_NAME", "minimart")

	viper.SetDefault("FIRESTORE_PROJECT_ID", "")
	viper.SetDefault("FIRESTORE_CREDENTIALS_FILE", "")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("TOKEN_TTL", "24h")

	viper.SetDefault("SEED_USERS", false)
	viper.SetDefault("SEED_DEFAULT_PASSWORD", "password123")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Storage.Backend = strings.ToLower(strings.TrimSpace(config.Storage.Backend))
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Validate verifica as combinações de configuração que impedem a inicialização
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendMongo, BackendPostgres:
	case BackendFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID é obrigatório para o backend %q", BackendFirestore)
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND inválido: %q (use json, mongo, firestore ou postgres)", c.Storage.Backend)
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL deve ser positivo")
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
