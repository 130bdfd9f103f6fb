package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/infrastructure/database/firestoredb"
	"github.com/vfg2006/minimart-api/infrastructure/database/mongodb"
	"github.com/vfg2006/minimart-api/infrastructure/database/postgres"
	"github.com/vfg2006/minimart-api/internal/config"
)

// Storage agrupa os repositórios de um único backend, escolhido na inicialização do processo
type Storage struct {
	Backend string
	Sales   SalesRepository
	Users   UserRepository
	ping    func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// OpenStorage conecta ao backend configurado em STORAGE_BACKEND e monta os repositórios
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	storage := &Storage{
		Backend: cfg.Storage.Backend,
		ping:    func(context.Context) error { return nil },
		close:   func(context.Context) error { return nil },
	}

	switch cfg.Storage.Backend {
	case config.BackendJSON:
		storage.Sales = NewSalesJSONRepository(cfg.Storage.DataDir)
		storage.Users = NewUserJSONRepository(cfg.Storage.DataDir)

	case config.BackendMongo:
		conn, err := mongodb.NewConnection(ctx, cfg.Mongo)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao conectar ao MongoDB")
		}
		storage.Sales = NewSalesMongoRepository(conn.Database)
		storage.Users = NewUserMongoRepository(conn.Database)
		storage.ping = conn.Ping
		storage.close = conn.Close

	case config.BackendFirestore:
		client, err := firestoredb.NewClient(ctx, cfg.Firestore)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao conectar ao Firestore")
		}
		storage.Sales = NewSalesFirestoreRepository(client)
		storage.Users = NewUserFirestoreRepository(client)
		storage.ping = func(ctx context.Context) error { return firestoredb.Ping(ctx, client) }
		storage.close = func(context.Context) error { return client.Close() }

	case config.BackendPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao conectar ao PostgreSQL")
		}
		storage.Sales = NewSalesPostgresRepository(conn)
		storage.Users = NewUserPostgresRepository(conn)
		storage.ping = conn.Ping
		storage.close = func(context.Context) error { return conn.Close() }

	default:
		return nil, errors.Errorf("backend de armazenamento desconhecido: %q", cfg.Storage.Backend)
	}

	logrus.WithField("backend", storage.Backend).Info("Backend de armazenamento selecionado")

	return storage, nil
}

// Initialize prepara os repositórios (arquivos, índices, tabelas). Pode ser chamado mais de uma vez.
func (s *Storage) Initialize(ctx context.Context) error {
	if err := s.Sales.Initialize(ctx); err != nil {
		return err
	}
	return s.Users.Initialize(ctx)
}

// Ping verifica se o backend responde. O backend de arquivo está sempre disponível.
func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Storage) Close(ctx context.Context) error {
	return s.close(ctx)
}
