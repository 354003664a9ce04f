package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"
)

// DefaultDatabase is used when neither the URI nor the config names one.
const DefaultDatabase = "job-tracker"

// ErrMissingURI is returned when no connection string is configured.
var ErrMissingURI = errors.New("MONGODB_URI is not set")

// DialFunc opens and verifies a client.
type DialFunc func(ctx context.Context, uri string) (*mongod.Client, error)

// Connector owns the process-wide Mongo client. The first call to Database
// connects; a failed attempt is not remembered, so the next call retries.
type Connector struct {
	uri      string
	database string
	dial     DialFunc

	mu     sync.Mutex
	client *mongod.Client
}

// NewConnector validates the URI without touching the network.
func NewConnector(uri, database string) (*Connector, error) {
	if uri == "" {
		return nil, ErrMissingURI
	}
	if database == "" {
		cs, err := connstring.ParseAndValidate(uri)
		if err != nil {
			return nil, fmt.Errorf("invalid MONGODB_URI: %w", err)
		}
		database = cs.Database
	}
	if database == "" {
		database = DefaultDatabase
	}
	return &Connector{uri: uri, database: database, dial: dial}, nil
}

// WithDialer replaces the dial function. Used in tests.
func (c *Connector) WithDialer(d DialFunc) *Connector {
	c.dial = d
	return c
}

func dial(ctx context.Context, uri string) (*mongod.Client, error) {
	client, err := mongod.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	return client, nil
}

// Database returns the tracker database, connecting on first use.
func (c *Connector) Database(ctx context.Context) (*mongod.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		client, err := c.dial(ctx, c.uri)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		c.client = client
	}
	return c.client.Database(c.database), nil
}

// Ping checks connectivity, connecting first if needed.
func (c *Connector) Ping(ctx context.Context) error {
	db, err := c.Database(ctx)
	if err != nil {
		return err
	}
	return db.Client().Ping(ctx, nil)
}

// Close disconnects the client if one was opened.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	return err
}
