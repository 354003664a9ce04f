package etcd

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"
)

// LeaderElectionKey is the election prefix shared by all tracker replicas.
const LeaderElectionKey = "/tracker/leader"

type etcdLeaderElection struct {
	client   *clientv3.Client
	session  *concurrency.Session
	election *concurrency.Election
	isLeader bool
	mutex    sync.RWMutex
	nodeID   string
	ttl      time.Duration
	logger   *slog.Logger
}

// NewEtcdLeaderElection elects one replica per cluster. A crashed leader is
// replaced once its lease of ttl expires.
func NewEtcdLeaderElection(client *clientv3.Client, nodeID string, ttl time.Duration, logger *slog.Logger) domain.LeaderElection {
	return &etcdLeaderElection{
		client: client,
		nodeID: nodeID,
		ttl:    ttl,
		logger: logger.With("component", "leader-election"),
	}
}

func (m *etcdLeaderElection) Campaign(ctx context.Context) (<-chan struct{}, error) {
	ttl := max(int(m.ttl.Seconds()), 1)
	session, err := concurrency.NewSession(m.client, concurrency.WithTTL(ttl))
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd session for election: %w", err)
	}

	election := concurrency.NewElection(session, LeaderElectionKey)
	if err := election.Campaign(ctx, m.nodeID); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("campaign failed: %w", err)
	}

	m.logger.Info("successfully campaigned and became the leader", "node_id", m.nodeID)
	m.mutex.Lock()
	m.session = session
	m.election = election
	m.isLeader = true
	m.mutex.Unlock()

	// Closed when the lease expires.
	return session.Done(), nil
}

func (m *etcdLeaderElection) Resign(ctx context.Context) error {
	m.mutex.Lock()
	election, session := m.election, m.session
	m.election, m.session = nil, nil
	m.isLeader = false
	m.mutex.Unlock()

	if election == nil {
		return nil
	}
	defer session.Close()

	m.logger.Info("resigning leadership", "node_id", m.nodeID)
	if err := election.Resign(ctx); err != nil {
		return fmt.Errorf("resign failed: %w", err)
	}
	return nil
}

func (m *etcdLeaderElection) IsLeader() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.isLeader
}
