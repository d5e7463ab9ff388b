package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/fathima-sithara/poseidon-service/internal/events"
	"github.com/fathima-sithara/poseidon-service/internal/models"
	"github.com/fathima-sithara/poseidon-service/internal/repository"
)

// PassengerService delegates queries and statistics to the repository and
// emits events after writes.
type PassengerService struct {
	repo   repository.PassengerRepository
	events events.Publisher
	log    *zap.Logger
}

func NewPassengerService(repo repository.PassengerRepository, pub events.Publisher, log *zap.Logger) *PassengerService {
	return &PassengerService{repo: repo, events: pub, log: log}
}

func (s *PassengerService) GetAll(ctx context.Context) ([]models.Passenger, error) {
	return s.repo.GetAll(ctx)
}

func (s *PassengerService) GetByID(ctx context.Context, id string) (*models.Passenger, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PassengerService) Create(ctx context.Context, p *models.Passenger) error {
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.publish(ctx, events.PassengerCreated, p.ID.Hex())
	return nil
}

func (s *PassengerService) Update(ctx context.Context, id string, p *models.Passenger) error {
	if err := s.repo.Update(ctx, id, p); err != nil {
		return err
	}
	s.publish(ctx, events.PassengerUpdated, id)
	return nil
}

func (s *PassengerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.PassengerDeleted, id)
	return nil
}

func (s *PassengerService) GetByClass(ctx context.Context, pclass int) ([]models.Passenger, error) {
	return s.repo.GetByClass(ctx, pclass)
}

func (s *PassengerService) GetByGender(ctx context.Context, sex string) ([]models.Passenger, error) {
	return s.repo.GetByGender(ctx, sex)
}

func (s *PassengerService) GetByAgeRange(ctx context.Context, minAge, maxAge float64) ([]models.Passenger, error) {
	if minAge > maxAge {
		return nil, ErrInvalidRange
	}
	return s.repo.GetByAgeRange(ctx, minAge, maxAge)
}

func (s *PassengerService) GetByFareRange(ctx context.Context, minFare, maxFare float64) ([]models.Passenger, error) {
	if minFare > maxFare {
		return nil, ErrInvalidRange
	}
	return s.repo.GetByFareRange(ctx, minFare, maxFare)
}

func (s *PassengerService) GetSurvivors(ctx context.Context) ([]models.Passenger, error) {
	return s.repo.GetSurvivors(ctx)
}

func (s *PassengerService) Search(ctx context.Context, c models.PassengerSearchCriteria) ([]models.Passenger, error) {
	if invertedRange(c.MinAge, c.MaxAge) || invertedRange(c.MinFare, c.MaxFare) {
		return nil, ErrInvalidRange
	}
	return s.repo.Search(ctx, c)
}

func (s *PassengerService) SurvivalRate(ctx context.Context) (float64, error) {
	return s.repo.SurvivalRate(ctx)
}

func (s *PassengerService) SurvivalRateByClass(ctx context.Context, pclass int) (float64, error) {
	return s.repo.SurvivalRateByClass(ctx, pclass)
}

func (s *PassengerService) SurvivalRateByGender(ctx context.Context, sex string) (float64, error) {
	return s.repo.SurvivalRateByGender(ctx, sex)
}

func (s *PassengerService) SurvivalRateByAgeRange(ctx context.Context, minAge, maxAge float64) (float64, error) {
	if minAge > maxAge {
		return 0, ErrInvalidRange
	}
	return s.repo.SurvivalRateByAgeRange(ctx, minAge, maxAge)
}

func (s *PassengerService) CountTotal(ctx context.Context) (int64, error) {
	return s.repo.CountTotal(ctx)
}

func (s *PassengerService) CountMen(ctx context.Context) (int64, error) {
	return s.repo.CountMen(ctx)
}

func (s *PassengerService) CountWomen(ctx context.Context) (int64, error) {
	return s.repo.CountWomen(ctx)
}

func (s *PassengerService) CountBoys(ctx context.Context) (int64, error) {
	return s.repo.CountBoys(ctx)
}

func (s *PassengerService) CountGirls(ctx context.Context) (int64, error) {
	return s.repo.CountGirls(ctx)
}

func (s *PassengerService) CountAdults(ctx context.Context) (int64, error) {
	return s.repo.CountAdults(ctx)
}

func (s *PassengerService) CountChildren(ctx context.Context) (int64, error) {
	return s.repo.CountChildren(ctx)
}

func (s *PassengerService) CountByClass(ctx context.Context, pclass int) (int64, error) {
	return s.repo.CountByClass(ctx, pclass)
}

func (s *PassengerService) publish(ctx context.Context, t events.Type, id string) {
	if err := s.events.Publish(ctx, events.New(t, id)); err != nil {
		s.log.Warn("event publish failed", zap.String("type", string(t)), zap.Error(err))
	}
}

func invertedRange(lo, hi *float64) bool {
	return lo != nil && hi != nil && *lo > *hi
}
