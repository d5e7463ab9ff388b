package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// entityPtr lets the generic repository assign generated ids through *E.
type entityPtr[E any] interface {
	*E
	Entity
}

// MongoRepository implements Repository[E] over a single collection.
type MongoRepository[E any, P entityPtr[E]] struct {
	col *mongo.Collection
}

func NewMongoRepository[E any, P entityPtr[E]](col *mongo.Collection) *MongoRepository[E, P] {
	return &MongoRepository[E, P]{col: col}
}

func (r *MongoRepository[E, P]) GetAll(ctx context.Context) ([]E, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository[E, P]) GetByID(ctx context.Context, id string) (*E, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", id, ErrNotFound)
	}

	var e E
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *MongoRepository[E, P]) Create(ctx context.Context, entity *E) error {
	p := P(entity)
	if p.GetID().IsZero() {
		p.SetID(primitive.NewObjectID())
	}
	if _, err := r.col.InsertOne(ctx, entity); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return err
	}
	return nil
}

// Update replaces the whole document. Zero matches is ErrNotFound.
func (r *MongoRepository[E, P]) Update(ctx context.Context, id string, entity *E) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", id, ErrNotFound)
	}
	P(entity).SetID(oid)

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, entity)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete is idempotent: unknown or malformed ids are not an error.
func (r *MongoRepository[E, P]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *MongoRepository[E, P]) find(ctx context.Context, filter any) ([]E, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []E
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []E{}
	}
	return out, nil
}

func (r *MongoRepository[E, P]) findOne(ctx context.Context, filter any) (*E, error) {
	var e E
	err := r.col.FindOne(ctx, filter).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *MongoRepository[E, P]) count(ctx context.Context, filter any) (int64, error) {
	return r.col.CountDocuments(ctx, filter)
}
