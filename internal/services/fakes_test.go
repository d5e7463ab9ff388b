package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/poseidon-service/internal/events"
	"github.com/fathima-sithara/poseidon-service/internal/models"
	"github.com/fathima-sithara/poseidon-service/internal/repository"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[string]models.User
	createErr error
	// beforeCreate runs once ahead of the next Create, standing in for a
	// concurrent registration.
	beforeCreate func(r *fakeUserRepo)
}

// put stores u directly, bypassing the unique checks.
func (r *fakeUserRepo) put(u models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.byID[u.ID.Hex()] = u
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]models.User{}}
}

func (r *fakeUserRepo) GetAll(context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if hook := r.beforeCreate; hook != nil {
		r.beforeCreate = nil
		hook(r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email || existing.Username == u.Username {
			return fmt.Errorf("insert: %w", repository.ErrDuplicateKey)
		}
	}
	u.ID = primitive.NewObjectID()
	r.byID[u.ID.Hex()] = *u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, id string, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	r.byID[id] = *u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.findBy(func(u models.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return r.findBy(func(u models.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) findBy(match func(models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens []models.Token
}

func (r *fakeTokenRepo) Create(_ context.Context, t *models.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = primitive.NewObjectID()
	r.tokens = append(r.tokens, *t)
	return nil
}

func (r *fakeTokenRepo) RemoveExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tokens[:0]
	var removed int64
	for _, t := range r.tokens {
		if t.Expiration.Before(now) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	r.tokens = kept
	return removed, nil
}

func (r *fakeTokenRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tokens[:0]
	var removed int64
	for _, t := range r.tokens {
		if t.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	r.tokens = kept
	return removed, nil
}

func (r *fakeTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

// fakePassengerRepo implements only what a test configures; other methods
// panic through the nil embedded interface.
type fakePassengerRepo struct {
	repository.PassengerRepository

	createErr    error
	searchOut    []models.Passenger
	lastCriteria models.PassengerSearchCriteria
	rateOut      float64
}

func (r *fakePassengerRepo) Create(_ context.Context, p *models.Passenger) error {
	if r.createErr != nil {
		return r.createErr
	}
	p.ID = primitive.NewObjectID()
	return nil
}

func (r *fakePassengerRepo) Search(_ context.Context, c models.PassengerSearchCriteria) ([]models.Passenger, error) {
	r.lastCriteria = c
	return r.searchOut, nil
}

func (r *fakePassengerRepo) SurvivalRateByClass(context.Context, int) (float64, error) {
	return r.rateOut, nil
}

func (r *fakePassengerRepo) GetByAgeRange(context.Context, float64, float64) ([]models.Passenger, error) {
	return []models.Passenger{}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
