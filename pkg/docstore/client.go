package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

const disconnectTimeout = 5 * time.Second

// Client wraps a MongoDB connection bound to one database.
type Client struct {
	raw *mongo.Client
	db  *mongo.Database
}

// New connects to MongoDB and verifies the primary is reachable.
func New(ctx context.Context, cfg config.MongoConfig, logg *logger.Logger) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongo database is required")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
		opts.SetServerSelectionTimeout(cfg.ConnectTimeout)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	raw, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := raw.Ping(ctx, readpref.Primary()); err != nil {
		_ = raw.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "database", cfg.Database), "mongo connection established")
	}

	return &Client{raw: raw, db: raw.Database(cfg.Database)}, nil
}

// Database returns the bound database handle.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Ping verifies the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return errors.New("mongo client not initialized")
	}
	return c.raw.Ping(ctx, readpref.Primary())
}

// Close disconnects with a bounded timeout.
func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return c.raw.Disconnect(ctx)
}

// EnsureIndexes creates the supplied indexes on a collection; existing ones are left alone.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
	}
	return nil
}

// IsNotFound reports whether err is the driver's empty-result sentinel.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, mongo.ErrNoDocuments)
}
