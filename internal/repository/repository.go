package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/poseidon-service/internal/errs"
	"github.com/fathima-sithara/poseidon-service/internal/models"
)

var (
	ErrNotFound     = fmt.Errorf("%w: entity not found", errs.ErrNotFound)
	ErrDuplicateKey = fmt.Errorf("%w: duplicate key", errs.ErrValidation)
)

// Entity is anything stored under a generated ObjectID.
type Entity interface {
	GetID() primitive.ObjectID
	SetID(primitive.ObjectID)
}

// Repository is the CRUD capability set over one collection.
type Repository[E any] interface {
	GetAll(ctx context.Context) ([]E, error)
	GetByID(ctx context.Context, id string) (*E, error)
	Create(ctx context.Context, entity *E) error
	Update(ctx context.Context, id string, entity *E) error
	Delete(ctx context.Context, id string) error
}

type PassengerRepository interface {
	Repository[models.Passenger]

	GetByClass(ctx context.Context, pclass int) ([]models.Passenger, error)
	GetByGender(ctx context.Context, sex string) ([]models.Passenger, error)
	GetByAgeRange(ctx context.Context, minAge, maxAge float64) ([]models.Passenger, error)
	GetByFareRange(ctx context.Context, minFare, maxFare float64) ([]models.Passenger, error)
	GetSurvivors(ctx context.Context) ([]models.Passenger, error)
	Search(ctx context.Context, c models.PassengerSearchCriteria) ([]models.Passenger, error)

	SurvivalRate(ctx context.Context) (float64, error)
	SurvivalRateByClass(ctx context.Context, pclass int) (float64, error)
	SurvivalRateByGender(ctx context.Context, sex string) (float64, error)
	SurvivalRateByAgeRange(ctx context.Context, minAge, maxAge float64) (float64, error)

	CountTotal(ctx context.Context) (int64, error)
	CountMen(ctx context.Context) (int64, error)
	CountWomen(ctx context.Context) (int64, error)
	CountBoys(ctx context.Context) (int64, error)
	CountGirls(ctx context.Context) (int64, error)
	CountAdults(ctx context.Context) (int64, error)
	CountChildren(ctx context.Context) (int64, error)
	CountByClass(ctx context.Context, pclass int) (int64, error)
}

type UserRepository interface {
	Repository[models.User]

	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type TokenRepository interface {
	Create(ctx context.Context, t *models.Token) error
	RemoveExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

var (
	_ PassengerRepository = (*MongoPassengerRepo)(nil)
	_ UserRepository      = (*MongoUserRepo)(nil)
	_ TokenRepository     = (*MongoTokenRepo)(nil)
)
