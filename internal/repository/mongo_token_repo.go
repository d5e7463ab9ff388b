package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/poseidon-service/internal/models"
)

type MongoTokenRepo struct {
	*MongoRepository[models.Token, *models.Token]
}

func NewMongoTokenRepo(db *mongo.Database, collection string) *MongoTokenRepo {
	return &MongoTokenRepo{
		MongoRepository: NewMongoRepository[models.Token](db.Collection(collection)),
	}
}

func (r *MongoTokenRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "Expiration", Value: 1}}},
		{Keys: bson.D{{Key: "UserId", Value: 1}}, Options: options.Index().SetName("user_tokens")},
	})
	return err
}

// RemoveExpired deletes tokens whose expiration is strictly before now.
func (r *MongoTokenRepo) RemoveExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.col.DeleteMany(ctx, expiredFilter(now))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoTokenRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"UserId": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func expiredFilter(now time.Time) bson.M {
	return bson.M{"Expiration": bson.M{"$lt": now}}
}
