package etcd

import (
	"context"
	"fmt"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// KV adapts an etcd client to the document store's key-value surface.
type KV struct {
	client *clientv3.Client
}

func NewKV(client *clientv3.Client) *KV {
	return &KV{client: client}
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	v, _, err := s.GetRevision(ctx, key)
	return v, err
}

// GetRevision returns the value of key with its mod revision.
func (s *KV) GetRevision(ctx context.Context, key string) ([]byte, int64, error) {
	resp, err := s.client.Get(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get %s from etcd: %w", key, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, 0, domain.ErrNotFound
	}
	return resp.Kvs[0].Value, resp.Kvs[0].ModRevision, nil
}

func (s *KV) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.client.Put(ctx, key, string(value)); err != nil {
		return fmt.Errorf("failed to put %s to etcd: %w", key, err)
	}
	return nil
}

// CompareAndPut writes value in a transaction guarded on the key's mod
// revision. A deleted key has revision 0 and never matches.
func (s *KV) CompareAndPut(ctx context.Context, key string, value []byte, rev int64) (bool, error) {
	resp, err := s.client.Txn(ctx).
		If(clientv3.Compare(clientv3.ModRevision(key), "=", rev)).
		Then(clientv3.OpPut(key, string(value))).
		Commit()
	if err != nil {
		return false, fmt.Errorf("failed to update %s in etcd: %w", key, err)
	}
	return resp.Succeeded, nil
}

func (s *KV) Delete(ctx context.Context, key string) (bool, error) {
	resp, err := s.client.Delete(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s from etcd: %w", key, err)
	}
	return resp.Deleted > 0, nil
}

// Scan returns values under prefix in key order.
func (s *KV) Scan(ctx context.Context, prefix string) ([][]byte, error) {
	resp, err := s.client.Get(ctx, prefix, clientv3.WithPrefix(), clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s from etcd: %w", prefix, err)
	}
	values := make([][]byte, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		values = append(values, kv.Value)
	}
	return values, nil
}

func (s *KV) Ping(ctx context.Context) error {
	return Ping(ctx, s.client)
}
