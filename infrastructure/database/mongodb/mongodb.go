package mongodb

import (
	"context"
	"time"

	"github.com/vfg2006/minimart-api/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

type Connection struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewConnection(ctx context.Context, cfg config.Mongo) (*Connection, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	conn := &Connection{
		Client:   client,
		Database: client.Database(cfg.Database),
	}

	if err := conn.Ping(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return conn, nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}

func (c *Connection) Collection(name string) *mongo.Collection {
	return c.Database.Collection(name)
}

func (c *Connection) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
