package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type document[T any] interface {
	*T
	SetID(id string)
}

// record pairs the ObjectID with the entity fields, stored flat.
type record[T any] struct {
	ID  bson.ObjectID `bson:"_id"`
	Doc T             `bson:",inline"`
}

func (r *record[T]) entity(set func(*T, string)) *T {
	set(&r.Doc, r.ID.Hex())
	return &r.Doc
}

type collection[T any, PT document[T]] struct {
	conn   *Connector
	name   string
	sort   bson.D
	tracer trace.Tracer
}

func newCollection[T any, PT document[T]](conn *Connector, name string, sort bson.D) *collection[T, PT] {
	return &collection[T, PT]{
		conn:   conn,
		name:   name,
		sort:   sort,
		tracer: otel.Tracer("job-tracker-mongo-repo"),
	}
}

func setID[T any, PT document[T]](doc *T, id string) {
	PT(doc).SetID(id)
}

func (c *collection[T, PT]) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "repo.mongo."+op,
		trace.WithAttributes(attribute.String("db.collection", c.name)))
}

func (c *collection[T, PT]) collection(ctx context.Context) (*mongod.Collection, error) {
	db, err := c.conn.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(c.name), nil
}

func objectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, domain.ErrInvalidID
	}
	return oid, nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

func fail(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}

func (c *collection[T, PT]) create(ctx context.Context, doc PT) error {
	ctx, span := c.start(ctx, "Create")
	defer span.End()

	col, err := c.collection(ctx)
	if err != nil {
		fail(span, err, "connect failed")
		return err
	}
	rec := record[T]{ID: bson.NewObjectID(), Doc: *doc}
	if _, err := col.InsertOne(ctx, rec); err != nil {
		fail(span, err, "insert failed")
		return fmt.Errorf("failed to insert into %s: %w", c.name, err)
	}
	doc.SetID(rec.ID.Hex())
	span.SetAttributes(attribute.String("db.id", rec.ID.Hex()))
	return nil
}

func (c *collection[T, PT]) get(ctx context.Context, id string) (PT, error) {
	ctx, span := c.start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.String("db.id", id))

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	col, err := c.collection(ctx)
	if err != nil {
		fail(span, err, "connect failed")
		return nil, err
	}
	var rec record[T]
	if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrNotFound
		}
		fail(span, err, "find failed")
		return nil, fmt.Errorf("failed to get %s/%s: %w", c.name, id, err)
	}
	return rec.entity(setID[T, PT]), nil
}

func (c *collection[T, PT]) find(ctx context.Context, filter bson.M) ([]*T, error) {
	ctx, span := c.start(ctx, "List")
	defer span.End()

	col, err := c.collection(ctx)
	if err != nil {
		fail(span, err, "connect failed")
		return nil, err
	}
	cursor, err := col.Find(ctx, filter, options.Find().SetSort(c.sort))
	if err != nil {
		fail(span, err, "find failed")
		return nil, fmt.Errorf("failed to list %s: %w", c.name, err)
	}
	var recs []record[T]
	if err := cursor.All(ctx, &recs); err != nil {
		fail(span, err, "decode failed")
		return nil, fmt.Errorf("failed to decode %s: %w", c.name, err)
	}
	span.SetAttributes(attribute.Int("db.returned", len(recs)))

	docs := make([]*T, 0, len(recs))
	for i := range recs {
		docs = append(docs, recs[i].entity(setID[T, PT]))
	}
	return docs, nil
}

func (c *collection[T, PT]) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, span := c.start(ctx, "Count")
	defer span.End()

	col, err := c.collection(ctx)
	if err != nil {
		fail(span, err, "connect failed")
		return 0, err
	}
	n, err := col.CountDocuments(ctx, filter)
	if err != nil {
		fail(span, err, "count failed")
		return 0, fmt.Errorf("failed to count %s: %w", c.name, err)
	}
	return n, nil
}

// update applies changes with $set and returns the document as stored
// afterwards.
func (c *collection[T, PT]) update(ctx context.Context, id string, changes domain.Changes) (PT, error) {
	if len(changes) == 0 {
		return c.get(ctx, id)
	}

	ctx, span := c.start(ctx, "Update")
	defer span.End()
	span.SetAttributes(attribute.String("db.id", id))

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	col, err := c.collection(ctx)
	if err != nil {
		fail(span, err, "connect failed")
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rec record[T]
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M(changes)}, opts).Decode(&rec)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrNotFound
		}
		fail(span, err, "update failed")
		return nil, fmt.Errorf("failed to update %s/%s: %w", c.name, id, err)
	}
	return rec.entity(setID[T, PT]), nil
}

func (c *collection[T, PT]) delete(ctx context.Context, id string) error {
	ctx, span := c.start(ctx, "Delete")
	defer span.End()
	span.SetAttributes(attribute.String("db.id", id))

	oid, err := objectID(id)
	if err != nil {
		return err
	}
	col, err := c.collection(ctx)
	if err != nil {
		fail(span, err, "connect failed")
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		fail(span, err, "delete failed")
		return fmt.Errorf("failed to delete %s/%s: %w", c.name, id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
