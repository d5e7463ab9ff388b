package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fathima-sithara/poseidon-service/internal/models"
)

type MongoPassengerRepo struct {
	*MongoRepository[models.Passenger, *models.Passenger]
}

func NewMongoPassengerRepo(db *mongo.Database, collection string) *MongoPassengerRepo {
	return &MongoPassengerRepo{
		MongoRepository: NewMongoRepository[models.Passenger](db.Collection(collection)),
	}
}

func (r *MongoPassengerRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: fieldPclass, Value: 1}}},
		{Keys: bson.D{{Key: fieldSex, Value: 1}}},
		{Keys: bson.D{{Key: fieldAge, Value: 1}}},
	})
	return err
}

func (r *MongoPassengerRepo) GetByClass(ctx context.Context, pclass int) ([]models.Passenger, error) {
	return r.find(ctx, classFilter(pclass))
}

func (r *MongoPassengerRepo) GetByGender(ctx context.Context, sex string) ([]models.Passenger, error) {
	return r.find(ctx, genderFilter(sex))
}

func (r *MongoPassengerRepo) GetByAgeRange(ctx context.Context, minAge, maxAge float64) ([]models.Passenger, error) {
	return r.find(ctx, ageRangeFilter(minAge, maxAge))
}

func (r *MongoPassengerRepo) GetByFareRange(ctx context.Context, minFare, maxFare float64) ([]models.Passenger, error) {
	return r.find(ctx, fareRangeFilter(minFare, maxFare))
}

func (r *MongoPassengerRepo) GetSurvivors(ctx context.Context) ([]models.Passenger, error) {
	return r.find(ctx, survivorsFilter())
}

func (r *MongoPassengerRepo) Search(ctx context.Context, c models.PassengerSearchCriteria) ([]models.Passenger, error) {
	return r.find(ctx, searchFilter(c))
}

func (r *MongoPassengerRepo) SurvivalRate(ctx context.Context) (float64, error) {
	return r.survivalRate(ctx, bson.M{})
}

func (r *MongoPassengerRepo) SurvivalRateByClass(ctx context.Context, pclass int) (float64, error) {
	return r.survivalRate(ctx, classFilter(pclass))
}

func (r *MongoPassengerRepo) SurvivalRateByGender(ctx context.Context, sex string) (float64, error) {
	return r.survivalRate(ctx, genderFilter(sex))
}

func (r *MongoPassengerRepo) SurvivalRateByAgeRange(ctx context.Context, minAge, maxAge float64) (float64, error) {
	return r.survivalRate(ctx, ageRangeFilter(minAge, maxAge))
}

func (r *MongoPassengerRepo) survivalRate(ctx context.Context, filter bson.M) (float64, error) {
	cur, err := r.col.Aggregate(ctx, survivalPipeline(filter))
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total     int64 `bson:"total"`
		Survivors int64 `bson:"survivors"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	// $group emits nothing for an empty match.
	if len(rows) == 0 {
		return 0, nil
	}
	return rate(rows[0].Survivors, rows[0].Total), nil
}

func (r *MongoPassengerRepo) CountTotal(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{})
}

func (r *MongoPassengerRepo) CountMen(ctx context.Context) (int64, error) {
	return r.count(ctx, genderFilter("male"))
}

func (r *MongoPassengerRepo) CountWomen(ctx context.Context) (int64, error) {
	return r.count(ctx, genderFilter("female"))
}

func (r *MongoPassengerRepo) CountBoys(ctx context.Context) (int64, error) {
	return r.count(ctx, minorFilter("male"))
}

func (r *MongoPassengerRepo) CountGirls(ctx context.Context) (int64, error) {
	return r.count(ctx, minorFilter("female"))
}

func (r *MongoPassengerRepo) CountAdults(ctx context.Context) (int64, error) {
	return r.count(ctx, adultFilter())
}

func (r *MongoPassengerRepo) CountChildren(ctx context.Context) (int64, error) {
	return r.count(ctx, minorFilter(""))
}

func (r *MongoPassengerRepo) CountByClass(ctx context.Context, pclass int) (int64, error) {
	return r.count(ctx, classFilter(pclass))
}
