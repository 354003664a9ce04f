// Package docstore keeps tracker records as JSON documents in a flat
// key-value store. Filtering and ordering happen in process.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RootPrefix is the key prefix every collection lives under.
const RootPrefix = "/tracker/"

// maxUpdateAttempts bounds the read-merge-write retries of one update.
const maxUpdateAttempts = 5

// KV is the minimal key-value surface a collection needs.
type KV interface {
	// Get returns domain.ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// GetRevision is Get plus the revision of the key's last write.
	GetRevision(ctx context.Context, key string) ([]byte, int64, error)
	Put(ctx context.Context, key string, value []byte) error
	// CompareAndPut writes only if key still carries rev and reports
	// whether it did.
	CompareAndPut(ctx context.Context, key string, value []byte, rev int64) (bool, error)
	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)
	// Scan returns the values of every key under prefix.
	Scan(ctx context.Context, prefix string) ([][]byte, error)
}

type document[T any] interface {
	*T
	SetID(id string)
}

// collection stores one entity type under RootPrefix/<name>/<id>.
type collection[T any, PT document[T]] struct {
	kv     KV
	name   string
	prefix string
	order  func(a, b *T) int
	logger *slog.Logger
	tracer trace.Tracer
}

func newCollection[T any, PT document[T]](kv KV, name string, order func(a, b *T) int, logger *slog.Logger) *collection[T, PT] {
	return &collection[T, PT]{
		kv:     kv,
		name:   name,
		prefix: RootPrefix + name + "/",
		order:  order,
		logger: logger.With("collection", name),
		tracer: otel.Tracer("job-tracker-docstore"),
	}
}

func (c *collection[T, PT]) key(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.ErrInvalidID
	}
	return path.Join(c.prefix, id), nil
}

func (c *collection[T, PT]) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "repo.docstore."+op,
		trace.WithAttributes(attribute.String("db.collection", c.name)))
}

func fail(span trace.Span, err error, msg string) {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}

func (c *collection[T, PT]) create(ctx context.Context, doc PT) error {
	ctx, span := c.start(ctx, "Create")
	defer span.End()

	id := uuid.NewString()
	doc.SetID(id)
	span.SetAttributes(attribute.String("db.id", id))

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s document: %w", c.name, err)
	}
	if err := c.kv.Put(ctx, path.Join(c.prefix, id), raw); err != nil {
		fail(span, err, "failed to put document")
		return fmt.Errorf("failed to insert into %s: %w", c.name, err)
	}
	return nil
}

func (c *collection[T, PT]) get(ctx context.Context, id string) (PT, error) {
	ctx, span := c.start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.String("db.id", id))

	doc, err := c.load(ctx, id)
	if err != nil {
		fail(span, err, "failed to get document")
		return nil, err
	}
	return doc, nil
}

func (c *collection[T, PT]) load(ctx context.Context, id string) (PT, error) {
	key, err := c.key(id)
	if err != nil {
		return nil, err
	}
	raw, err := c.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", c.name, id, err)
	}
	return c.decode(raw, id)
}

func (c *collection[T, PT]) decode(raw []byte, id string) (PT, error) {
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s/%s: %w", c.name, id, err)
	}
	PT(&doc).SetID(id)
	return &doc, nil
}

// list scans the collection, keeps documents accepted by match and sorts
// them with the collection order.
func (c *collection[T, PT]) list(ctx context.Context, match func(*T) bool) ([]*T, error) {
	ctx, span := c.start(ctx, "List")
	defer span.End()

	values, err := c.kv.Scan(ctx, c.prefix)
	if err != nil {
		fail(span, err, "failed to scan collection")
		return nil, fmt.Errorf("failed to list %s: %w", c.name, err)
	}
	span.SetAttributes(attribute.Int("db.scanned", len(values)))

	docs := make([]*T, 0, len(values))
	for _, raw := range values {
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			c.logger.Warn("skipping undecodable document", "error", err)
			continue
		}
		if match(&doc) {
			docs = append(docs, &doc)
		}
	}
	if c.order != nil {
		slices.SortStableFunc(docs, c.order)
	}
	return docs, nil
}

func (c *collection[T, PT]) count(ctx context.Context, match func(*T) bool) (int64, error) {
	docs, err := c.list(ctx, match)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

// update merges changes into the stored document. The write only lands if
// nobody else wrote the key since it was read; otherwise the merge is
// redone on the fresh copy.
func (c *collection[T, PT]) update(ctx context.Context, id string, changes domain.Changes) (PT, error) {
	ctx, span := c.start(ctx, "Update")
	defer span.End()
	span.SetAttributes(attribute.String("db.id", id))

	key, err := c.key(id)
	if err != nil {
		return nil, err
	}
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		raw, rev, err := c.kv.GetRevision(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			fail(span, err, "failed to load document")
			return nil, fmt.Errorf("failed to get %s/%s: %w", c.name, id, err)
		}
		doc, err := c.decode(raw, id)
		if err != nil {
			return nil, err
		}
		if err := domain.Merge(doc, changes); err != nil {
			return nil, fmt.Errorf("failed to merge %s/%s: %w", c.name, id, err)
		}
		doc.SetID(id)

		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s/%s: %w", c.name, id, err)
		}
		ok, err := c.kv.CompareAndPut(ctx, key, out, rev)
		if err != nil {
			fail(span, err, "failed to put document")
			return nil, fmt.Errorf("failed to update %s/%s: %w", c.name, id, err)
		}
		if ok {
			span.SetAttributes(attribute.Int("db.attempts", attempt))
			return doc, nil
		}
		c.logger.Debug("document changed during update, retrying", "id", id, "attempt", attempt)
	}

	err = fmt.Errorf("failed to update %s/%s: %w", c.name, id, domain.ErrConflict)
	fail(span, err, "document kept changing")
	return nil, err
}

func (c *collection[T, PT]) delete(ctx context.Context, id string) error {
	ctx, span := c.start(ctx, "Delete")
	defer span.End()
	span.SetAttributes(attribute.String("db.id", id))

	key, err := c.key(id)
	if err != nil {
		return err
	}
	existed, err := c.kv.Delete(ctx, key)
	if err != nil {
		fail(span, err, "failed to delete document")
		return fmt.Errorf("failed to delete %s/%s: %w", c.name, id, err)
	}
	if !existed {
		return domain.ErrNotFound
	}
	return nil
}
