package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/config"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/infra/docstore"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/infra/etcd"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/infra/memory"
	"github.com/fairooz-nawal/Job-Application-Tracker/internal/infra/mongo"
)

// store bundles what the selected driver provides.
type store struct {
	repos    *domain.Repositories
	locker   domain.Locker
	election domain.LeaderElection
	ping     func(ctx context.Context) error
	close    func(ctx context.Context) error
}

func (s *store) Ping(ctx context.Context) error { return s.ping(ctx) }

// openStore connects the configured driver. Only etcd coordinates replicas;
// the other drivers assume a single process.
func openStore(ctx context.Context, cfg *config.Config, nodeID string, logger *slog.Logger) (*store, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		conn, err := mongo.NewConnector(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		s := mongo.NewStore(conn, logger)
		if err := s.Migrate(ctx); err != nil {
			// The connector retries on the next request; start anyway.
			logger.Warn("index migration failed", "error", err)
		}
		return &store{
			repos:    s.Repositories(),
			locker:   memory.NewLocker(),
			election: memory.NewSoleLeader(),
			ping:     s.Ping,
			close:    conn.Close,
		}, nil

	case config.DriverEtcd:
		client, err := etcd.NewClient(cfg.EtcdEndpoints, cfg.EtcdTimeout)
		if err != nil {
			return nil, fmt.Errorf("create etcd client: %w", err)
		}
		kv := etcd.NewKV(client)
		logger.Info("connected to etcd", "endpoints", cfg.EtcdEndpoints)
		return &store{
			repos:    docstore.New(kv, logger),
			locker:   etcd.NewEtcdLocker(client),
			election: etcd.NewEtcdLeaderElection(client, nodeID, cfg.LeaderElectionTTL, logger),
			ping:     kv.Ping,
			close:    func(context.Context) error { return client.Close() },
		}, nil

	default:
		kv := memory.NewKV()
		logger.Warn("using in-memory storage, data is lost on restart")
		return &store{
			repos:    docstore.New(kv, logger),
			locker:   memory.NewLocker(),
			election: memory.NewSoleLeader(),
			ping:     kv.Ping,
			close:    func(context.Context) error { return nil },
		}, nil
	}
}
