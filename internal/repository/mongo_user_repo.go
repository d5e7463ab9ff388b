package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/poseidon-service/internal/models"
)

type MongoUserRepo struct {
	*MongoRepository[models.User, *models.User]
}

func NewMongoUserRepo(db *mongo.Database, collection string) *MongoUserRepo {
	return &MongoUserRepo{
		MongoRepository: NewMongoRepository[models.User](db.Collection(collection)),
	}
}

// EnsureIndexes backs the unique email and username rules at the store level.
func (r *MongoUserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "Email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "Username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"Email": email})
}

func (r *MongoUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"Username": username})
}
