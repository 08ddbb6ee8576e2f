// Package mongo stores the login and mutation audit trail in MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultDatabase = "project_registry"
	appName         = "project-registry"

	// Audit writes come from a handful of dispatcher workers.
	maxPoolSize = 16
)

// Config describes the audit database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func (c Config) clientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(c.URI).
		SetAppName(appName).
		SetMaxPoolSize(maxPoolSize).
		SetServerSelectionTimeout(c.timeout()).
		SetWriteConcern(writeconcern.Majority())
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

func (c Config) database() string {
	if c.Database == "" {
		return defaultDatabase
	}
	return c.Database
}

// Connect dials MongoDB and pings the primary. The returned client must be
// disconnected by the caller.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	opts := cfg.clientOptions()
	if err := opts.Validate(); err != nil {
		return nil, nil, fmt.Errorf("mongo options: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.database()), nil
}
