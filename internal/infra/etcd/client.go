package etcd

import (
	"context"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

func NewClient(endpoints []string, timeout time.Duration) (*clientv3.Client, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	return cli, nil
}

// Ping asks the first reachable endpoint for its status.
func Ping(ctx context.Context, cli *clientv3.Client) error {
	var lastErr error
	for _, ep := range cli.Endpoints() {
		if _, err := cli.Status(ctx, ep); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		return fmt.Errorf("no etcd endpoints configured")
	}
	return fmt.Errorf("etcd unreachable: %w", lastErr)
}
