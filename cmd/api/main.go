package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/infrastructure/repository"
	"github.com/vfg2006/minimart-api/internal/api"
	"github.com/vfg2006/minimart-api/internal/config"
	"github.com/vfg2006/minimart-api/internal/usecases/authenticating"
	"github.com/vfg2006/minimart-api/internal/usecases/dailysales"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage := openStorage(ctx, cfg)

	authenticator := authenticating.NewService(storage.Users, cfg)

	if cfg.Seed.Enabled {
		if err := authenticator.SeedUsers(ctx); err != nil {
			logrus.WithError(err).Fatal("Erro ao criar usuários iniciais")
		}
	}

	salesService := dailysales.NewService(storage.Sales, storage.Users)

	server, err := api.New(cfg, storage.Backend, storage, salesService, authenticator)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// openStorage conecta ao backend configurado e prepara arquivos, índices e tabelas
func openStorage(ctx context.Context, cfg *config.Config) *repository.Storage {
	storage, err := repository.OpenStorage(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao abrir o armazenamento")
	}

	if err := storage.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com o armazenamento")
	}

	if err := storage.Initialize(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar o armazenamento")
	}

	logrus.WithField("backend", storage.Backend).Info("Armazenamento pronto")
	return storage
}
